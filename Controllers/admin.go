package Controllers

import (
	"fmt"
	"strconv"

	"AutoWash/Audit"
	"AutoWash/Bookings"
	"AutoWash/Models"
	"AutoWash/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminController serves the admin panel: dashboard, customer management
// and booking oversight. Every state change and sensitive read is audited.
type AdminController struct {
	DB     *gorm.DB
	Engine *Bookings.Engine
	Audit  *Audit.Recorder
}

// NewAdminController creates a new AdminController
func NewAdminController(db *gorm.DB, engine *Bookings.Engine, audit *Audit.Recorder) *AdminController {
	return &AdminController{DB: db, Engine: engine, Audit: audit}
}

// LoginPage renders the admin login form
func (a *AdminController) LoginPage(c *fiber.Ctx) error {
	return c.Render("admin_login", flash(c))
}

// Login handles the admin login form post. Only staff and admin accounts
// may enter; the login is audited and the caller's IP is remembered.
func (a *AdminController) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	var user Models.User
	if err := a.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return redirectWith(c, "/admin/login", "error", "Invalid admin credentials or insufficient permissions")
	}
	if user.IsDisabled || !user.CheckPassword(password) || !user.IsAdmin() {
		return redirectWith(c, "/admin/login", "error", "Invalid admin credentials or insufficient permissions")
	}

	if err := setSessionCookie(c, &user); err != nil {
		return redirectWith(c, "/admin/login", "error", "Could not log in, please try again")
	}

	ip := ClientIP(c)
	a.Audit.Record(user.ID, "Login", ip, fmt.Sprintf("Admin login from %s", ip))

	user.LastLoginIP = ip
	a.DB.Save(&user)

	return c.Redirect("/admin/dashboard")
}

// Logout ends the admin session
func (a *AdminController) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	a.Audit.Record(user.ID, "Logout", ClientIP(c), "Admin logout")

	clearSessionCookie(c)
	return redirectWith(c, "/admin/login", "success", "You have been logged out from the admin panel")
}

// Dashboard renders the admin dashboard with site counts and the most
// recent audit entries
func (a *AdminController) Dashboard(c *fiber.Ctx) error {
	var totalUsers, activeBookings, servicesCount int64
	a.DB.Model(&Models.User{}).Count(&totalUsers)
	a.DB.Model(&Models.Booking{}).Where("status = ?", Models.StatusPending).Count(&activeBookings)
	a.DB.Model(&Models.Service{}).Count(&servicesCount)

	var completed []Models.Booking
	a.DB.Preload("Service").Where("status = ?", Models.StatusCompleted).Find(&completed)
	var revenue float64
	for i := range completed {
		revenue += completed[i].Service.Price
	}

	var recentLogs []Models.AdminLog
	a.DB.Order("timestamp DESC").Limit(10).Find(&recentLogs)

	data := flash(c)
	data["User"] = middleware.CurrentUser(c)
	data["TotalUsers"] = totalUsers
	data["ActiveBookings"] = activeBookings
	data["ServicesCount"] = servicesCount
	data["Revenue"] = revenue
	data["RecentLogs"] = recentLogs
	return c.Render("admin_dashboard", data)
}

// Users lists customer accounts
func (a *AdminController) Users(c *fiber.Ctx) error {
	var customers []Models.User
	a.DB.Where("permission = ?", Models.PermissionCustomer).Find(&customers)

	admin := middleware.CurrentUser(c)
	a.Audit.Record(admin.ID, "View Customers", ClientIP(c), "Admin viewed customer list")

	data := flash(c)
	data["User"] = admin
	data["Customers"] = customers
	data["TotalCustomers"] = len(customers)
	return c.Render("admin_users", data)
}

// UserForm renders the create or edit form for a customer account
func (a *AdminController) UserForm(c *fiber.Ctx) error {
	data := flash(c)
	data["User"] = middleware.CurrentUser(c)

	if idParam := c.Params("id"); idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil {
			return redirectWith(c, "/admin/users", "error", "Invalid user ID")
		}
		var customer Models.User
		if err := a.DB.First(&customer, id).Error; err != nil {
			return redirectWith(c, "/admin/users", "error", "User not found")
		}
		data["Customer"] = customer
	}
	return c.Render("admin_user_form", data)
}

// CreateUser handles the new-customer form post
func (a *AdminController) CreateUser(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)

	user := Models.User{
		Username:   c.FormValue("username"),
		Email:      c.FormValue("email"),
		FirstName:  c.FormValue("first_name"),
		LastName:   c.FormValue("last_name"),
		Phone:      c.FormValue("phone"),
		Address:    c.FormValue("address"),
		Permission: Models.PermissionCustomer,
	}
	if user.Username == "" || user.Email == "" || c.FormValue("password") == "" {
		return redirectWith(c, "/admin/users/new", "error", "Please fill in all required fields")
	}
	if err := user.SetPassword(c.FormValue("password")); err != nil {
		return redirectWith(c, "/admin/users/new", "error", "Could not create user")
	}
	if err := a.DB.Create(&user).Error; err != nil {
		return redirectWith(c, "/admin/users/new", "error", "Username or email already exists")
	}

	a.Audit.Record(admin.ID, "Create User", ClientIP(c),
		fmt.Sprintf("Created customer account %s", user.Username))
	return redirectWith(c, "/admin/users", "success", "User created successfully")
}

// UpdateUser handles the edit-customer form post
func (a *AdminController) UpdateUser(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return redirectWith(c, "/admin/users", "error", "Invalid user ID")
	}

	var user Models.User
	if err := a.DB.First(&user, id).Error; err != nil {
		return redirectWith(c, "/admin/users", "error", "User not found")
	}

	user.Email = c.FormValue("email")
	user.FirstName = c.FormValue("first_name")
	user.LastName = c.FormValue("last_name")
	user.Phone = c.FormValue("phone")
	user.Address = c.FormValue("address")
	if password := c.FormValue("password"); password != "" {
		if err := user.SetPassword(password); err != nil {
			return redirectWith(c, "/admin/users", "error", "Could not update user")
		}
	}
	if err := a.DB.Save(&user).Error; err != nil {
		return redirectWith(c, "/admin/users", "error", "Could not update user")
	}

	a.Audit.Record(admin.ID, "Update User", ClientIP(c),
		fmt.Sprintf("Updated customer account %s", user.Username))
	return redirectWith(c, "/admin/users", "success", "User updated successfully")
}

// ToggleUser disables or re-enables a customer account
func (a *AdminController) ToggleUser(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return redirectWith(c, "/admin/users", "error", "Invalid user ID")
	}

	var user Models.User
	if err := a.DB.First(&user, id).Error; err != nil {
		return redirectWith(c, "/admin/users", "error", "User not found")
	}

	user.IsDisabled = !user.IsDisabled
	if err := a.DB.Save(&user).Error; err != nil {
		return redirectWith(c, "/admin/users", "error", "Could not update user")
	}

	action := "Enable User"
	if user.IsDisabled {
		action = "Disable User"
	}
	a.Audit.Record(admin.ID, action, ClientIP(c),
		fmt.Sprintf("%s for account %s", action, user.Username))
	return redirectWith(c, "/admin/users", "success", "User updated successfully")
}

// AllBookings lists every booking for the admin panel
func (a *AdminController) AllBookings(c *fiber.Ctx) error {
	var bookings []Models.Booking
	a.DB.Preload("Service").Preload("User").Order("date_time DESC").Find(&bookings)

	admin := middleware.CurrentUser(c)
	a.Audit.Record(admin.ID, "View Bookings", ClientIP(c), "Admin viewed booking list")

	type row struct {
		Bookings.View
		Username string
	}
	rows := make([]row, 0, len(bookings))
	for i := range bookings {
		rows = append(rows, row{View: Bookings.NewView(&bookings[i]), Username: bookings[i].User.Username})
	}

	data := flash(c)
	data["User"] = admin
	data["Bookings"] = rows
	return c.Render("admin_bookings", data)
}

// BookingDetail renders one booking with its status-override form
func (a *AdminController) BookingDetail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return redirectWith(c, "/admin/bookings", "error", "Invalid booking ID")
	}

	var booking Models.Booking
	if err := a.DB.Preload("Service").Preload("User").First(&booking, id).Error; err != nil {
		return redirectWith(c, "/admin/bookings", "error", "Booking not found")
	}

	data := flash(c)
	data["User"] = middleware.CurrentUser(c)
	data["Booking"] = Bookings.NewView(&booking)
	data["Customer"] = booking.User.Username
	data["Statuses"] = []string{Models.StatusPending, Models.StatusCompleted, Models.StatusCancelled}
	return c.Render("admin_booking_detail", data)
}

// UpdateBookingStatus handles the status-override form post
func (a *AdminController) UpdateBookingStatus(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return redirectWith(c, "/admin/bookings", "error", "Invalid booking ID")
	}

	if _, err := a.Engine.AdminUpdateStatus(admin, uint(id), c.FormValue("status"), ClientIP(c)); err != nil {
		return webError(c, "/admin/bookings", err)
	}
	return redirectWith(c, "/admin/bookings/"+c.Params("id"), "success", "Booking status updated")
}
