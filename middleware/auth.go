package middleware

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"AutoWash/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// secretKey signs both session cookies and API tokens
func secretKey() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret"
	}
	return []byte(secret)
}

// GenerateToken issues a signed token whose subject is the user ID. The
// same token serves as the session cookie value and as the API bearer
// token.
func GenerateToken(user *Models.User, lifetime time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.Itoa(int(user.ID)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// userFromToken validates a token and loads its user with a single indexed
// lookup
func userFromToken(tokenString string) *Models.User {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secretKey(), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil
	}

	var user Models.User
	if err := Models.DB.Where("id = ?", claims.Issuer).First(&user).Error; err != nil {
		return nil
	}
	if user.IsDisabled {
		return nil
	}
	return &user
}

// ResolveUser finds the caller's identity for the API surface. It tries, in
// order: the Authorization header ("Token x" or "Bearer x"), the token
// query parameter, a token field in a JSON body, and finally the session
// cookie. A token that fails validation does not end the search; a live
// session still authenticates the request. It never fails; an unresolvable
// identity is a nil user and the caller decides how to reject.
func ResolveUser(c *fiber.Ctx) *Models.User {
	var tokenString string

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Token ") {
		tokenString = strings.TrimPrefix(authHeader, "Token ")
	} else if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if tokenString == "" {
		tokenString = c.Query("token")
	}

	if tokenString == "" && c.Method() != fiber.MethodGet && len(c.Body()) > 0 {
		var body struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(c.Body(), &body); err == nil {
			tokenString = body.Token
		}
	}

	if tokenString != "" {
		if user := userFromToken(tokenString); user != nil {
			return user
		}
	}

	if cookie := c.Cookies("jwt"); cookie != "" {
		return userFromToken(cookie)
	}
	return nil
}

// Verify gates page routes off the session cookie. The logged-in user is
// stored in c.Locals("user") for the handlers. requiredPermission follows
// the levels in Models: 1 customer, 2 staff, 3 admin.
func Verify(requiredPermission int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies("jwt")
		if cookie == "" {
			return redirectOrUnauthorized(c, requiredPermission)
		}

		user := userFromToken(cookie)
		if user == nil {
			return redirectOrUnauthorized(c, requiredPermission)
		}

		if user.Permission < requiredPermission {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Insufficient permissions to access this resource",
			})
		}

		c.Locals("user", *user)
		return c.Next()
	}
}

func redirectOrUnauthorized(c *fiber.Ctx, requiredPermission int) error {
	if c.Accepts("html", "json") == "html" {
		if requiredPermission >= Models.PermissionStaff {
			return c.Redirect("/admin/login")
		}
		return c.Redirect("/login")
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Not Logged In.",
	})
}

// CurrentUser returns the user stored by Verify
func CurrentUser(c *fiber.Ctx) *Models.User {
	if user, ok := c.Locals("user").(Models.User); ok {
		return &user
	}
	return nil
}
