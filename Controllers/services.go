package Controllers

import (
	"fmt"
	"strconv"

	"AutoWash/Audit"
	"AutoWash/Models"
	"AutoWash/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ServiceController handles the admin catalog CRUD
type ServiceController struct {
	DB    *gorm.DB
	Audit *Audit.Recorder
}

// NewServiceController creates a new ServiceController
func NewServiceController(db *gorm.DB, audit *Audit.Recorder) *ServiceController {
	return &ServiceController{DB: db, Audit: audit}
}

// Services lists the catalog for the admin panel
func (s *ServiceController) Services(c *fiber.Ctx) error {
	var services []Models.Service
	s.DB.Find(&services)

	data := flash(c)
	data["User"] = middleware.CurrentUser(c)
	data["Services"] = services
	return c.Render("admin_services", data)
}

// ServiceForm renders the create or edit form
func (s *ServiceController) ServiceForm(c *fiber.Ctx) error {
	data := flash(c)
	data["User"] = middleware.CurrentUser(c)

	if idParam := c.Params("id"); idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil {
			return redirectWith(c, "/admin/services", "error", "Invalid service ID")
		}
		var service Models.Service
		if err := s.DB.First(&service, id).Error; err != nil {
			return redirectWith(c, "/admin/services", "error", "Service not found")
		}
		data["Service"] = service
	}
	return c.Render("admin_service_form", data)
}

// parseServiceForm reads the shared create and edit form fields
func parseServiceForm(c *fiber.Ctx) (Models.Service, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return Models.Service{}, err
	}
	duration, err := strconv.Atoi(c.FormValue("duration_minutes"))
	if err != nil {
		return Models.Service{}, err
	}
	service := Models.Service{
		Name:            c.FormValue("name"),
		Description:     c.FormValue("description"),
		Price:           price,
		DurationMinutes: duration,
	}
	if service.Name == "" {
		return Models.Service{}, fmt.Errorf("name is required")
	}
	return service, nil
}

// CreateService handles the new-service form post
func (s *ServiceController) CreateService(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)

	service, err := parseServiceForm(c)
	if err != nil {
		return redirectWith(c, "/admin/services/new", "error", "Please fill in all fields with valid values")
	}
	if err := s.DB.Create(&service).Error; err != nil {
		return redirectWith(c, "/admin/services/new", "error", "Could not create service")
	}

	s.Audit.Record(admin.ID, "Create Service", ClientIP(c),
		fmt.Sprintf("Created service %s ($%.2f)", service.Name, service.Price))
	return redirectWith(c, "/admin/services", "success", "Service created successfully")
}

// UpdateService handles the edit-service form post
func (s *ServiceController) UpdateService(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return redirectWith(c, "/admin/services", "error", "Invalid service ID")
	}

	var service Models.Service
	if err := s.DB.First(&service, id).Error; err != nil {
		return redirectWith(c, "/admin/services", "error", "Service not found")
	}

	input, err := parseServiceForm(c)
	if err != nil {
		return redirectWith(c, "/admin/services", "error", "Please fill in all fields with valid values")
	}

	service.Name = input.Name
	service.Description = input.Description
	service.Price = input.Price
	service.DurationMinutes = input.DurationMinutes
	if err := s.DB.Save(&service).Error; err != nil {
		return redirectWith(c, "/admin/services", "error", "Could not update service")
	}

	s.Audit.Record(admin.ID, "Update Service", ClientIP(c),
		fmt.Sprintf("Updated service %s ($%.2f)", service.Name, service.Price))
	return redirectWith(c, "/admin/services", "success", "Service updated successfully")
}

// DeleteService removes a service from the catalog. Bookings referencing
// it are left in place and will read through to an empty service.
func (s *ServiceController) DeleteService(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return redirectWith(c, "/admin/services", "error", "Invalid service ID")
	}

	var service Models.Service
	if err := s.DB.First(&service, id).Error; err != nil {
		return redirectWith(c, "/admin/services", "error", "Service not found")
	}
	if err := s.DB.Delete(&service).Error; err != nil {
		return redirectWith(c, "/admin/services", "error", "Could not delete service")
	}

	s.Audit.Record(admin.ID, "Delete Service", ClientIP(c),
		fmt.Sprintf("Deleted service %s", service.Name))
	return redirectWith(c, "/admin/services", "success", "Service deleted successfully")
}
