package Bookings

import (
	"fmt"
	"strings"
	"time"

	"AutoWash/Audit"
	"AutoWash/Models"

	"gorm.io/gorm"
)

// Engine owns the booking lifecycle. Both the page controllers and the JSON
// API call into it; neither carries lifecycle rules of its own.
type Engine struct {
	DB    *gorm.DB
	Audit *Audit.Recorder
}

// NewEngine creates a booking engine
func NewEngine(db *gorm.DB, audit *Audit.Recorder) *Engine {
	return &Engine{DB: db, Audit: audit}
}

// CreateInput carries the fields needed to book an appointment
type CreateInput struct {
	ServiceID    uint
	DateTime     string
	VehicleMake  string
	VehicleModel string
	VehicleType  string
	LicensePlate string
	Notes        string
}

// Create books a new PENDING appointment for the user. The date is parsed
// strictly as "2006-01-02 15:04"; past dates and daily capacity are not
// checked.
func (e *Engine) Create(user *Models.User, input CreateInput) (*Models.Booking, error) {
	if input.ServiceID == 0 || input.DateTime == "" || input.VehicleMake == "" ||
		input.VehicleModel == "" || input.VehicleType == "" || input.LicensePlate == "" {
		return nil, ErrMissingFields
	}

	var service Models.Service
	if err := e.DB.First(&service, input.ServiceID).Error; err != nil {
		return nil, ErrServiceNotFound
	}

	dateTime, err := time.Parse(Models.DateTimeLayout, input.DateTime)
	if err != nil {
		return nil, ErrInvalidDateTime
	}

	booking := Models.Booking{
		UserID:          user.ID,
		ServiceID:       service.ID,
		DateTime:        dateTime,
		Status:          Models.StatusPending,
		VehicleMake:     input.VehicleMake,
		VehicleModel:    input.VehicleModel,
		VehicleType:     strings.ToUpper(input.VehicleType),
		LicensePlate:    input.LicensePlate,
		AdditionalNotes: input.Notes,
	}
	if err := e.DB.Create(&booking).Error; err != nil {
		return nil, err
	}
	booking.Service = service
	return &booking, nil
}

// get loads a booking and applies the ownership gate. Admins bypass the
// gate only where the calling operation allows it.
func (e *Engine) get(user *Models.User, id uint, adminBypass bool) (*Models.Booking, error) {
	var booking Models.Booking
	if err := e.DB.Preload("Service").First(&booking, id).Error; err != nil {
		return nil, ErrNotFound
	}
	if booking.UserID != user.ID {
		if !(adminBypass && user.IsAdmin()) {
			return nil, ErrForbidden
		}
	}
	return &booking, nil
}

// Get returns a booking owned by the user
func (e *Engine) Get(user *Models.User, id uint) (*Models.Booking, error) {
	return e.get(user, id, false)
}

// ListForUser returns the user's bookings, most recent appointment first
func (e *Engine) ListForUser(user *Models.User) ([]Models.Booking, error) {
	var bookings []Models.Booking
	err := e.DB.Preload("Service").Where("user_id = ?", user.ID).
		Order("date_time DESC").Find(&bookings).Error
	return bookings, err
}

// Reschedule moves a PENDING booking to a new date and time. The owner or
// an admin may reschedule; the status is left untouched.
func (e *Engine) Reschedule(user *Models.User, id uint, newDateTime string) (*Models.Booking, error) {
	booking, err := e.get(user, id, true)
	if err != nil {
		return nil, err
	}
	if !booking.IsPending() {
		return nil, ErrInvalidStatus
	}
	dateTime, err := time.Parse(Models.DateTimeLayout, newDateTime)
	if err != nil {
		return nil, ErrInvalidDateTime
	}
	booking.DateTime = dateTime
	if err := e.DB.Save(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel moves a PENDING booking to CANCELLED. Irreversible through this
// path; only AdminUpdateStatus can move a booking out of a terminal state.
func (e *Engine) Cancel(user *Models.User, id uint) (*Models.Booking, error) {
	booking, err := e.get(user, id, true)
	if err != nil {
		return nil, err
	}
	if !booking.IsPending() {
		return nil, ErrInvalidStatus
	}
	booking.Status = Models.StatusCancelled
	if err := e.DB.Save(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// Duplicate creates a new PENDING booking copying the service and vehicle
// fields of one the user already owns, scheduled one day from now. Callers
// are expected to reschedule it right away.
func (e *Engine) Duplicate(user *Models.User, id uint) (*Models.Booking, error) {
	original, err := e.get(user, id, false)
	if err != nil {
		return nil, err
	}
	booking := Models.Booking{
		UserID:          user.ID,
		ServiceID:       original.ServiceID,
		DateTime:        time.Now().Add(24 * time.Hour),
		Status:          Models.StatusPending,
		VehicleMake:     original.VehicleMake,
		VehicleModel:    original.VehicleModel,
		VehicleType:     original.VehicleType,
		LicensePlate:    original.LicensePlate,
		AdditionalNotes: original.AdditionalNotes,
	}
	if err := e.DB.Create(&booking).Error; err != nil {
		return nil, err
	}
	booking.Service = original.Service
	return &booking, nil
}

// AdminUpdateStatus overwrites a booking's status with any of the three
// valid values, case-insensitively, with no restriction on the prior state.
// Moving a booking out of COMPLETED or CANCELLED is deliberately permitted
// here and nowhere else.
func (e *Engine) AdminUpdateStatus(admin *Models.User, id uint, status, ipAddress string) (*Models.Booking, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	if !Models.ValidStatus(status) {
		return nil, ErrUnknownStatus
	}

	var booking Models.Booking
	if err := e.DB.Preload("Service").First(&booking, id).Error; err != nil {
		return nil, ErrNotFound
	}

	oldStatus := booking.Status
	booking.Status = strings.ToUpper(status)
	if err := e.DB.Save(&booking).Error; err != nil {
		return nil, err
	}

	e.Audit.Record(admin.ID, "Update Booking Status", ipAddress,
		fmt.Sprintf("Booking %s status changed from %s to %s", booking.BookingID, oldStatus, booking.Status))
	return &booking, nil
}

// Receipt returns a booking for its receipt view. Only the owner may view
// it and only once the booking is COMPLETED.
func (e *Engine) Receipt(user *Models.User, id uint) (*Models.Booking, error) {
	booking, err := e.get(user, id, false)
	if err != nil {
		return nil, err
	}
	if booking.Status != Models.StatusCompleted {
		return nil, ErrNotCompleted
	}
	return booking, nil
}
