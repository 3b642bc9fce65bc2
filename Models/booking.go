package Models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking statuses
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Vehicle types accepted on booking forms
var VehicleTypes = []string{"SEDAN", "SUV", "TRUCK", "VAN", "MOTORCYCLE"}

// DateTimeLayout is the literal format bookings are scheduled with
const DateTimeLayout = "2006-01-02 15:04"

// Booking represents a scheduled wash appointment
type Booking struct {
	gorm.Model
	BookingID       string    `json:"booking_id" gorm:"uniqueIndex;size:10"`
	UserID          uint      `json:"user_id" gorm:"index"`
	ServiceID       uint      `json:"service_id"`
	DateTime        time.Time `json:"date_time"`
	Status          string    `json:"status" gorm:"size:10;default:PENDING"`
	VehicleMake     string    `json:"vehicle_make" gorm:"size:50"`
	VehicleModel    string    `json:"vehicle_model" gorm:"size:50"`
	VehicleType     string    `json:"vehicle_type" gorm:"size:10"`
	LicensePlate    string    `json:"license_plate" gorm:"size:15"`
	AdditionalNotes string    `json:"additional_notes"`

	// Relationships
	User    User    `json:"-" gorm:"foreignKey:UserID"`
	Service Service `json:"-" gorm:"foreignKey:ServiceID"`
}

// BeforeCreate assigns the human-facing booking code on first save.
// Codes are "BK" plus 5 uppercase hex characters from a random UUID;
// collisions are theoretically possible but not checked, matching the
// unique column constraint as the only guard.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == "" {
		b.BookingID = "BK" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:5])
	}
	return nil
}

// IsPending reports whether the booking can still be rescheduled or cancelled
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// ValidStatus reports whether s names one of the three booking states,
// case-insensitively
func ValidStatus(s string) bool {
	switch strings.ToUpper(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

