package Controllers

import (
	"fmt"
	"time"

	"AutoWash/Audit"
	"AutoWash/Bookings"
	"AutoWash/Models"
	"AutoWash/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportController exports admin booking reports
type ReportController struct {
	DB    *gorm.DB
	Audit *Audit.Recorder
}

// NewReportController creates a new ReportController
func NewReportController(db *gorm.DB, audit *Audit.Recorder) *ReportController {
	return &ReportController{DB: db, Audit: audit}
}

// ExportBookings writes every booking to an Excel sheet and streams it to
// the admin
func (r *ReportController) ExportBookings(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)

	var bookings []Models.Booking
	if err := r.DB.Preload("Service").Preload("User").Order("date_time DESC").Find(&bookings).Error; err != nil {
		return redirectWith(c, "/admin/bookings", "error", "Could not export bookings")
	}

	file := excelize.NewFile()
	defer file.Close()
	sheet := "Sheet1"

	headers := []interface{}{"Booking Code", "Customer", "Service", "Date & Time", "Status",
		"Vehicle", "License Plate", "Price", "Created"}
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return redirectWith(c, "/admin/bookings", "error", "Could not export bookings")
	}

	for i := range bookings {
		view := Bookings.NewView(&bookings[i])
		row := []interface{}{
			view.BookingID,
			bookings[i].User.Username,
			view.Service,
			view.DateTime,
			view.Status,
			view.VehicleMake + " " + view.VehicleModel + " (" + view.VehicleType + ")",
			view.LicensePlate,
			view.Price,
			view.CreatedAt,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return redirectWith(c, "/admin/bookings", "error", "Could not export bookings")
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return redirectWith(c, "/admin/bookings", "error", "Could not export bookings")
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return redirectWith(c, "/admin/bookings", "error", "Could not export bookings")
	}

	r.Audit.Record(admin.ID, "Export Bookings", ClientIP(c),
		fmt.Sprintf("Exported %d bookings to Excel", len(bookings)))

	filename := "bookings_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buffer.Bytes())
}
