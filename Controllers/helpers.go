package Controllers

import (
	"errors"
	"strings"

	"AutoWash/Bookings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ClientIP returns the caller's address, preferring the first entry of
// X-Forwarded-For when the app sits behind a proxy
func ClientIP(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.IP()
}

// jsonError writes the API error envelope
func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// apiError maps engine errors onto the API error envelope. Every API
// handler funnels engine failures through here so the status mapping stays
// in one place.
func apiError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, Bookings.ErrNotFound), errors.Is(err, Bookings.ErrForbidden):
		// Bookings owned by someone else are reported as missing
		return jsonError(c, fiber.StatusNotFound, "Booking not found")
	case errors.Is(err, Bookings.ErrServiceNotFound):
		return jsonError(c, fiber.StatusBadRequest, "Invalid service selected")
	case errors.Is(err, Bookings.ErrInvalidDateTime):
		return jsonError(c, fiber.StatusBadRequest, "Invalid date or time format. Use YYYY-MM-DD HH:MM format.")
	case errors.Is(err, Bookings.ErrMissingFields):
		return jsonError(c, fiber.StatusBadRequest, "Missing required fields")
	case errors.Is(err, Bookings.ErrInvalidStatus):
		return jsonError(c, fiber.StatusBadRequest, "Only pending bookings can be updated")
	case errors.Is(err, Bookings.ErrUnknownStatus):
		return jsonError(c, fiber.StatusBadRequest, "Invalid status value")
	case errors.Is(err, Bookings.ErrNotCompleted):
		return jsonError(c, fiber.StatusBadRequest, "Receipt is only available for completed bookings")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// flash pulls the redirect messages web handlers pass along as query
// parameters
func flash(c *fiber.Ctx) fiber.Map {
	return fiber.Map{
		"Error":   c.Query("error"),
		"Success": c.Query("success"),
	}
}

// redirectWith sends the browser to path with a flash message attached
func redirectWith(c *fiber.Ctx, path, kind, message string) error {
	return c.Redirect(path + "?" + kind + "=" + strings.ReplaceAll(message, " ", "+"))
}
