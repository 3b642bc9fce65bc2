package Controllers

import (
	"errors"
	"strconv"
	"time"

	"AutoWash/Bookings"
	"AutoWash/Models"
	"AutoWash/middleware"

	"github.com/gofiber/fiber/v2"
)

// BookingController serves the customer-facing booking pages. All lifecycle
// rules live in the engine; this controller only translates forms and
// renders templates.
type BookingController struct {
	Engine *Bookings.Engine
}

// NewBookingController creates a new BookingController
func NewBookingController(engine *Bookings.Engine) *BookingController {
	return &BookingController{Engine: engine}
}

// webError turns an engine error into a redirect with a flash message
func webError(c *fiber.Ctx, path string, err error) error {
	switch {
	case errors.Is(err, Bookings.ErrNotFound), errors.Is(err, Bookings.ErrForbidden):
		return redirectWith(c, path, "error", "Booking not found")
	case errors.Is(err, Bookings.ErrInvalidStatus):
		return redirectWith(c, path, "error", "Only pending bookings can be modified")
	case errors.Is(err, Bookings.ErrInvalidDateTime):
		return redirectWith(c, path, "error", "Invalid date or time format")
	case errors.Is(err, Bookings.ErrServiceNotFound):
		return redirectWith(c, path, "error", "Invalid service selected")
	case errors.Is(err, Bookings.ErrMissingFields):
		return redirectWith(c, path, "error", "Please fill in all required fields")
	case errors.Is(err, Bookings.ErrUnknownStatus):
		return redirectWith(c, path, "error", "Invalid status value")
	case errors.Is(err, Bookings.ErrNotCompleted):
		return redirectWith(c, path, "error", "Receipt is only available for completed bookings")
	default:
		return redirectWith(c, path, "error", "Something went wrong, please try again")
	}
}

// Dashboard renders the customer dashboard with upcoming bookings and the
// service catalog
func (b *BookingController) Dashboard(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var upcoming []Models.Booking
	b.Engine.DB.Preload("Service").
		Where("user_id = ? AND status = ? AND date_time >= ?", user.ID, Models.StatusPending, time.Now()).
		Order("date_time ASC").Limit(3).Find(&upcoming)

	var services []Models.Service
	b.Engine.DB.Find(&services)

	data := flash(c)
	data["User"] = user
	data["UpcomingBookings"] = Bookings.NewViews(upcoming)
	data["Services"] = services
	return c.Render("dashboard", data)
}

// BookingPage renders the booking form
func (b *BookingController) BookingPage(c *fiber.Ctx) error {
	var services []Models.Service
	b.Engine.DB.Find(&services)

	data := flash(c)
	data["User"] = middleware.CurrentUser(c)
	data["Services"] = services
	data["VehicleTypes"] = Models.VehicleTypes
	return c.Render("booking", data)
}

// CreateBooking handles the booking form post. Date and time arrive as two
// fields and are joined before parsing.
func (b *BookingController) CreateBooking(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	serviceID, _ := strconv.Atoi(c.FormValue("service"))
	input := Bookings.CreateInput{
		ServiceID:    uint(serviceID),
		DateTime:     c.FormValue("date") + " " + c.FormValue("time"),
		VehicleMake:  c.FormValue("vehicle_make"),
		VehicleModel: c.FormValue("vehicle_model"),
		VehicleType:  c.FormValue("vehicle_type"),
		LicensePlate: c.FormValue("license_plate"),
		Notes:        c.FormValue("notes"),
	}
	if c.FormValue("date") == "" || c.FormValue("time") == "" {
		input.DateTime = ""
	}

	booking, err := b.Engine.Create(user, input)
	if err != nil {
		return webError(c, "/booking", err)
	}

	return redirectWith(c, "/mybookings", "success",
		"Your "+booking.Service.Name+" booking has been confirmed for "+booking.DateTime.Format("January 2, 2006 at 3:04 PM"))
}

// MyBookings lists the user's bookings
func (b *BookingController) MyBookings(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	bookings, err := b.Engine.ListForUser(user)
	if err != nil {
		return webError(c, "/dashboard", err)
	}

	data := flash(c)
	data["User"] = user
	data["Bookings"] = Bookings.NewViews(bookings)
	return c.Render("mybookings", data)
}

// ReschedulePage renders the reschedule form for one booking
func (b *BookingController) ReschedulePage(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	booking, err := b.Engine.Get(user, uint(id))
	if err != nil {
		return webError(c, "/mybookings", err)
	}
	if !booking.IsPending() {
		return redirectWith(c, "/mybookings", "error", "Only pending bookings can be rescheduled")
	}

	data := flash(c)
	data["User"] = user
	data["Booking"] = Bookings.NewView(booking)
	return c.Render("reschedule", data)
}

// Reschedule handles the reschedule form post
func (b *BookingController) Reschedule(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	newDateTime := c.FormValue("date") + " " + c.FormValue("time")
	booking, err := b.Engine.Reschedule(user, uint(id), newDateTime)
	if err != nil {
		return webError(c, "/mybookings", err)
	}

	return redirectWith(c, "/mybookings", "success",
		"Your booking has been rescheduled to "+booking.DateTime.Format("January 2, 2006 at 3:04 PM"))
}

// CancelPage renders the cancellation confirmation page
func (b *BookingController) CancelPage(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	booking, err := b.Engine.Get(user, uint(id))
	if err != nil {
		return webError(c, "/mybookings", err)
	}
	if !booking.IsPending() {
		return redirectWith(c, "/mybookings", "error", "Only pending bookings can be cancelled")
	}

	data := flash(c)
	data["User"] = user
	data["Booking"] = Bookings.NewView(booking)
	return c.Render("cancel_booking", data)
}

// Cancel handles the cancellation confirmation post
func (b *BookingController) Cancel(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	if _, err := b.Engine.Cancel(user, uint(id)); err != nil {
		return webError(c, "/mybookings", err)
	}
	return redirectWith(c, "/mybookings", "success", "Your booking has been cancelled")
}

// BookAgain duplicates a past booking and sends the user straight to the
// reschedule form for the copy
func (b *BookingController) BookAgain(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	booking, err := b.Engine.Duplicate(user, uint(id))
	if err != nil {
		return webError(c, "/mybookings", err)
	}

	return redirectWith(c, "/bookings/"+strconv.Itoa(int(booking.ID))+"/reschedule", "success",
		"Your "+booking.Service.Name+" booking has been created. Please update the date and time.")
}

// Receipt renders the receipt for a completed booking
func (b *BookingController) Receipt(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	booking, err := b.Engine.Receipt(user, uint(id))
	if err != nil {
		return webError(c, "/mybookings", err)
	}

	data := flash(c)
	data["User"] = user
	data["Booking"] = Bookings.NewView(booking)
	return c.Render("receipt", data)
}
