package Controllers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"AutoWash/Audit"
	"AutoWash/Models"
	"AutoWash/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SettingsController handles the multi-section site settings form. The
// submitted setting_type field decides which section is being saved.
type SettingsController struct {
	DB    *gorm.DB
	Audit *Audit.Recorder
}

// NewSettingsController creates a new SettingsController
func NewSettingsController(db *gorm.DB, audit *Audit.Recorder) *SettingsController {
	return &SettingsController{DB: db, Audit: audit}
}

// SettingsPage renders the settings form with the active configuration
func (s *SettingsController) SettingsPage(c *fiber.Ctx) error {
	settings, err := Models.GetSettings(s.DB)
	if err != nil {
		return redirectWith(c, "/admin/dashboard", "error", "Could not load settings")
	}

	notifications := map[string]bool{}
	if len(settings.Notifications) > 0 {
		json.Unmarshal(settings.Notifications, &notifications)
	}

	data := flash(c)
	data["User"] = middleware.CurrentUser(c)
	data["Settings"] = settings
	data["Notifications"] = notifications
	return c.Render("admin_settings", data)
}

// UpdateSettings handles the settings form post
func (s *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)

	settings, err := Models.GetSettings(s.DB)
	if err != nil {
		return redirectWith(c, "/admin/settings", "error", "Could not load settings")
	}

	settingType := c.FormValue("setting_type")
	switch settingType {
	case "general":
		settings.SiteName = c.FormValue("site_name")
		settings.ContactMail = c.FormValue("contact_email")
		settings.Phone = c.FormValue("phone")
		settings.Address = c.FormValue("address")
	case "appearance":
		settings.ThemeColor = c.FormValue("theme_color")
		settings.LogoPath = c.FormValue("logo_path")
	case "booking":
		settings.MaxDailyBookings = formInt(c, "max_daily_bookings", settings.MaxDailyBookings)
		settings.MinAdvanceHours = formInt(c, "min_advance_hours", settings.MinAdvanceHours)
		settings.MaxAdvanceDays = formInt(c, "max_advance_days", settings.MaxAdvanceDays)
		settings.SlotLengthMinutes = formInt(c, "slot_length_minutes", settings.SlotLengthMinutes)
	case "notifications":
		toggles := map[string]bool{
			"booking_created":   c.FormValue("booking_created") == "on",
			"booking_cancelled": c.FormValue("booking_cancelled") == "on",
			"booking_completed": c.FormValue("booking_completed") == "on",
		}
		raw, err := json.Marshal(toggles)
		if err != nil {
			return redirectWith(c, "/admin/settings", "error", "Could not save settings")
		}
		settings.Notifications = datatypes.JSON(raw)
	case "account":
		settings.AllowRegistration = c.FormValue("allow_registration") == "on"
		settings.SessionHours = formInt(c, "session_hours", settings.SessionHours)
	case "security":
		settings.RequireStrongPass = c.FormValue("require_strong_pass") == "on"
		settings.MinPasswordLength = formInt(c, "min_password_length", settings.MinPasswordLength)
		settings.LockoutThreshold = formInt(c, "lockout_threshold", settings.LockoutThreshold)
		settings.PasswordExpiryDays = formInt(c, "password_expiry_days", settings.PasswordExpiryDays)
	default:
		return redirectWith(c, "/admin/settings", "error", "Unknown settings section")
	}

	if err := Models.SaveSettings(s.DB, settings); err != nil {
		return redirectWith(c, "/admin/settings", "error", "Could not save settings")
	}

	s.Audit.Record(admin.ID, "Update Settings", ClientIP(c),
		fmt.Sprintf("Updated %s settings", settingType))
	return redirectWith(c, "/admin/settings", "success", "Settings saved successfully")
}

// formInt reads an integer form field, keeping the current value when the
// field is absent or malformed
func formInt(c *fiber.Ctx, name string, current int) int {
	value, err := strconv.Atoi(c.FormValue(name))
	if err != nil {
		return current
	}
	return value
}
