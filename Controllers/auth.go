package Controllers

import (
	"time"

	"AutoWash/Models"
	"AutoWash/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController handles customer login, registration and profile pages
type AuthController struct {
	DB *gorm.DB
}

// NewAuthController creates a new AuthController
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// sessionLifetime is how long the jwt cookie stays valid
const sessionLifetime = 24 * time.Hour

// authenticate looks a user up by username and checks the password
func (a *AuthController) authenticate(username, password string) *Models.User {
	var user Models.User
	if err := a.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil
	}
	if user.IsDisabled || !user.CheckPassword(password) {
		return nil
	}
	return &user
}

// setSessionCookie issues the jwt cookie for a logged-in user
func setSessionCookie(c *fiber.Ctx, user *Models.User) error {
	token, err := middleware.GenerateToken(user, sessionLifetime)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(sessionLifetime),
		HTTPOnly: true,
	})
	return nil
}

// clearSessionCookie expires the jwt cookie
func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}

// LoginPage renders the login form
func (a *AuthController) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", flash(c))
}

// Login handles the login form post
func (a *AuthController) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user := a.authenticate(username, password)
	if user == nil {
		return redirectWith(c, "/login", "error", "Invalid username or password")
	}

	if err := setSessionCookie(c, user); err != nil {
		return redirectWith(c, "/login", "error", "Could not log in, please try again")
	}
	return c.Redirect("/dashboard")
}

// RegisterPage renders the registration form
func (a *AuthController) RegisterPage(c *fiber.Ctx) error {
	return c.Render("register", flash(c))
}

// Register handles the registration form post
func (a *AuthController) Register(c *fiber.Ctx) error {
	firstName := c.FormValue("first_name")
	lastName := c.FormValue("last_name")
	username := c.FormValue("username")
	email := c.FormValue("email")
	password1 := c.FormValue("password1")
	password2 := c.FormValue("password2")

	if password1 != password2 {
		return redirectWith(c, "/register", "error", "Passwords do not match")
	}

	var count int64
	a.DB.Model(&Models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return redirectWith(c, "/register", "error", "Username already exists")
	}
	a.DB.Model(&Models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return redirectWith(c, "/register", "error", "Email already exists")
	}

	user := Models.User{
		Username:   username,
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
		Permission: Models.PermissionCustomer,
	}
	if err := user.SetPassword(password1); err != nil {
		return redirectWith(c, "/register", "error", "Could not create account")
	}
	if err := a.DB.Create(&user).Error; err != nil {
		return redirectWith(c, "/register", "error", "Could not create account")
	}

	return redirectWith(c, "/login", "success", "Account created successfully. You can now log in.")
}

// Logout clears the session and returns to the login page
func (a *AuthController) Logout(c *fiber.Ctx) error {
	clearSessionCookie(c)
	return redirectWith(c, "/login", "success", "You have been logged out successfully")
}

// ProfilePage renders the profile page with booking statistics
func (a *AuthController) ProfilePage(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var bookingsCount int64
	a.DB.Model(&Models.Booking{}).Where("user_id = ?", user.ID).Count(&bookingsCount)

	data := flash(c)
	data["User"] = user
	data["BookingsCount"] = bookingsCount
	data["MemberSince"] = user.CreatedAt.Format("January 2, 2006")
	return c.Render("profile", data)
}

// UpdateProfile handles the profile page posts. The submitted fields decide
// which form it was: profile details or a password change.
func (a *AuthController) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if c.FormValue("first_name") != "" || c.FormValue("email") != "" {
		user.FirstName = c.FormValue("first_name")
		user.LastName = c.FormValue("last_name")
		user.Email = c.FormValue("email")
		user.Phone = c.FormValue("phone")
		user.Address = c.FormValue("address")
		if err := a.DB.Save(user).Error; err != nil {
			return redirectWith(c, "/profile", "error", "Could not update profile")
		}
		return redirectWith(c, "/profile", "success", "Profile updated successfully")
	}

	if c.FormValue("current_password") != "" {
		currentPassword := c.FormValue("current_password")
		newPassword := c.FormValue("new_password")
		confirmPassword := c.FormValue("confirm_password")

		if !user.CheckPassword(currentPassword) {
			return redirectWith(c, "/profile", "error", "Current password is incorrect")
		}
		if newPassword != confirmPassword {
			return redirectWith(c, "/profile", "error", "New passwords do not match")
		}
		if err := user.SetPassword(newPassword); err != nil {
			return redirectWith(c, "/profile", "error", "Could not change password")
		}
		if err := a.DB.Save(user).Error; err != nil {
			return redirectWith(c, "/profile", "error", "Could not change password")
		}
		clearSessionCookie(c)
		return redirectWith(c, "/login", "success", "Password changed successfully. Please log in again.")
	}

	return c.Redirect("/profile")
}
