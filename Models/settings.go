package Models

import (
	"errors"
	"sync"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SiteSettings holds the site-wide configuration record. Exactly one row is
// active at a time; Save deactivates the others inside the same transaction.
type SiteSettings struct {
	gorm.Model
	Active bool `json:"active" gorm:"default:true"`

	// General
	SiteName    string `json:"site_name" gorm:"size:100;default:AutoWash Hub"`
	ContactMail string `json:"contact_email" gorm:"size:254"`
	Phone       string `json:"phone" gorm:"size:20"`
	Address     string `json:"address"`

	// Appearance
	ThemeColor string `json:"theme_color" gorm:"size:20;default:blue"`
	LogoPath   string `json:"logo_path" gorm:"size:255"`

	// Booking policy (displayed on forms, never enforced by the engine)
	MaxDailyBookings  int `json:"max_daily_bookings" gorm:"default:20"`
	MinAdvanceHours   int `json:"min_advance_hours" gorm:"default:1"`
	MaxAdvanceDays    int `json:"max_advance_days" gorm:"default:30"`
	SlotLengthMinutes int `json:"slot_length_minutes" gorm:"default:30"`

	// Notification toggles, stored as a JSON blob
	Notifications datatypes.JSON `json:"notifications"`

	// Account / security
	AllowRegistration  bool `json:"allow_registration" gorm:"default:true"`
	SessionHours       int  `json:"session_hours" gorm:"default:24"`
	RequireStrongPass  bool `json:"require_strong_pass" gorm:"default:false"`
	MinPasswordLength  int  `json:"min_password_length" gorm:"default:8"`
	LockoutThreshold   int  `json:"lockout_threshold" gorm:"default:5"`
	PasswordExpiryDays int  `json:"password_expiry_days" gorm:"default:0"`
}

// settingsMu serializes the deactivate-then-save path so two concurrent
// writers cannot both end up active.
var settingsMu sync.Mutex

// GetSettings returns the active settings row, creating a default one on
// first access
func GetSettings(db *gorm.DB) (*SiteSettings, error) {
	var settings SiteSettings
	err := db.Where("active = ?", true).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settingsMu.Lock()
		defer settingsMu.Unlock()
		err = db.Where("active = ?", true).First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = SiteSettings{
				Active:            true,
				SiteName:          "AutoWash Hub",
				ThemeColor:        "blue",
				MaxDailyBookings:  20,
				MinAdvanceHours:   1,
				MaxAdvanceDays:    30,
				SlotLengthMinutes: 30,
				Notifications:     datatypes.JSON([]byte(`{"booking_created":true,"booking_cancelled":true,"booking_completed":false}`)),
				AllowRegistration: true,
				SessionHours:      24,
				MinPasswordLength: 8,
				LockoutThreshold:  5,
			}
			if err := db.Create(&settings).Error; err != nil {
				return nil, err
			}
			return &settings, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings stores the row as the single active configuration,
// deactivating every other row in the same transaction
func SaveSettings(db *gorm.DB, settings *SiteSettings) error {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&SiteSettings{}).Where("id != ?", settings.ID).
			Update("active", false).Error; err != nil {
			return err
		}
		settings.Active = true
		return tx.Save(settings).Error
	})
}
