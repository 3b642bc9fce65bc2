package Bookings

import (
	"AutoWash/Models"
)

// View is the serialized shape both surfaces use for a booking. Price and
// service name are read through from the linked Service row, so they always
// reflect the current catalog rather than the values at booking time.
type View struct {
	ID              uint    `json:"id"`
	BookingID       string  `json:"booking_id"`
	Service         string  `json:"service"`
	ServiceID       uint    `json:"service_id"`
	DateTime        string  `json:"date_time"`
	Status          string  `json:"status"`
	VehicleMake     string  `json:"vehicle_make"`
	VehicleModel    string  `json:"vehicle_model"`
	VehicleType     string  `json:"vehicle_type"`
	LicensePlate    string  `json:"license_plate"`
	AdditionalNotes string  `json:"additional_notes"`
	Price           float64 `json:"price"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// NewView builds the serialized form of a booking loaded with its service
func NewView(b *Models.Booking) View {
	return View{
		ID:              b.ID,
		BookingID:       b.BookingID,
		Service:         b.Service.Name,
		ServiceID:       b.ServiceID,
		DateTime:        b.DateTime.Format(Models.DateTimeLayout),
		Status:          b.Status,
		VehicleMake:     b.VehicleMake,
		VehicleModel:    b.VehicleModel,
		VehicleType:     b.VehicleType,
		LicensePlate:    b.LicensePlate,
		AdditionalNotes: b.AdditionalNotes,
		Price:           b.Service.Price,
		CreatedAt:       b.CreatedAt.Format(Models.DateTimeLayout),
		UpdatedAt:       b.UpdatedAt.Format(Models.DateTimeLayout),
	}
}

// NewViews maps a booking slice to its serialized form
func NewViews(bookings []Models.Booking) []View {
	views := make([]View, 0, len(bookings))
	for i := range bookings {
		views = append(views, NewView(&bookings[i]))
	}
	return views
}
