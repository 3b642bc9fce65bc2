package Controllers

import (
	"os"
	"strconv"

	"AutoWash/Bookings"
	"AutoWash/Models"
	"AutoWash/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// APIController serves the JSON API surface. Identity comes from
// middleware.ResolveUser, so every endpoint accepts either a token or an
// active session.
type APIController struct {
	DB     *gorm.DB
	Engine *Bookings.Engine
}

// NewAPIController creates a new APIController
func NewAPIController(db *gorm.DB, engine *Bookings.Engine) *APIController {
	return &APIController{DB: db, Engine: engine}
}

// MethodNotAllowed is attached after each API route to keep the error
// envelope consistent for unsupported methods
func MethodNotAllowed(c *fiber.Ctx) error {
	return jsonError(c, fiber.StatusMethodNotAllowed, "Method not allowed")
}

func userSummary(user *Models.User) fiber.Map {
	return fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates and opens a session for API clients
func (a *APIController) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid JSON data")
	}
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	var user Models.User
	if err := a.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}
	if user.IsDisabled || !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	if err := setSessionCookie(c, &user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Could not open session")
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Login successful",
		"user":    userSummary(&user),
	})
}

type registerRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Register creates an account from a JSON body
func (a *APIController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid JSON data")
	}
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "All fields are required")
	}
	if req.Password != req.ConfirmPassword {
		return jsonError(c, fiber.StatusBadRequest, "Passwords do not match")
	}

	var count int64
	a.DB.Model(&Models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return jsonError(c, fiber.StatusBadRequest, "Username already exists")
	}
	a.DB.Model(&Models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return jsonError(c, fiber.StatusBadRequest, "Email already exists")
	}

	user := Models.User{
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Permission: Models.PermissionCustomer,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Could not create account")
	}
	if err := a.DB.Create(&user).Error; err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Could not create account")
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Account created successfully",
		"user":    userSummary(&user),
	})
}

// Token exchanges credentials for a bearer token
func (a *APIController) Token(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid JSON data")
	}
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	var user Models.User
	if err := a.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if user.IsDisabled || !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := middleware.GenerateToken(&user, sessionLifetime)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Could not issue token")
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// AuthStatus reports the resolved identity plus an echo of the request,
// for client debugging
func (a *APIController) AuthStatus(c *fiber.Ctx) error {
	user := middleware.ResolveUser(c)

	headers := map[string]string{}
	c.Request().Header.VisitAll(func(key, value []byte) {
		headers[string(key)] = string(value)
	})
	echo := fiber.Map{
		"headers": headers,
		"method":  c.Method(),
		"path":    c.Path(),
	}

	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":        "error",
			"authenticated": false,
			"headers":       echo["headers"],
			"method":        echo["method"],
			"path":          echo["path"],
		})
	}
	return c.JSON(fiber.Map{
		"status":        "success",
		"authenticated": true,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"headers": echo["headers"],
		"method":  echo["method"],
		"path":    echo["path"],
	})
}

// Services lists the catalog
func (a *APIController) Services(c *fiber.Ctx) error {
	var services []Models.Service
	if err := a.DB.Find(&services).Error; err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to retrieve services")
	}

	servicesData := make([]fiber.Map, 0, len(services))
	for _, service := range services {
		servicesData = append(servicesData, fiber.Map{
			"id":               service.ID,
			"name":             service.Name,
			"description":      service.Description,
			"price":            service.Price,
			"duration_minutes": service.DurationMinutes,
		})
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"services": servicesData,
	})
}

type createBookingRequest struct {
	ServiceID       uint   `json:"service_id"`
	DateTime        string `json:"date_time"`
	VehicleMake     string `json:"vehicle_make"`
	VehicleModel    string `json:"vehicle_model"`
	VehicleType     string `json:"vehicle_type"`
	LicensePlate    string `json:"license_plate"`
	AdditionalNotes string `json:"additional_notes"`
	TestMode        bool   `json:"test_mode"`
}

// CreateBooking creates a booking for the resolved identity. test_mode is
// honored only when ALLOW_TEST_MODE is set, and substitutes the first user
// in the store for unauthenticated development calls.
func (a *APIController) CreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid JSON data")
	}

	user := middleware.ResolveUser(c)
	if user == nil && req.TestMode && os.Getenv("ALLOW_TEST_MODE") == "true" {
		var first Models.User
		if err := a.DB.Order("id ASC").First(&first).Error; err != nil {
			return jsonError(c, fiber.StatusBadRequest, "No users available for test mode")
		}
		user = &first
	}
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
	}

	booking, err := a.Engine.Create(user, Bookings.CreateInput{
		ServiceID:    req.ServiceID,
		DateTime:     req.DateTime,
		VehicleMake:  req.VehicleMake,
		VehicleModel: req.VehicleModel,
		VehicleType:  req.VehicleType,
		LicensePlate: req.LicensePlate,
		Notes:        req.AdditionalNotes,
	})
	if err != nil {
		return apiError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Booking created successfully",
		"booking": Bookings.NewView(booking),
	})
}

// ListBookings returns the caller's bookings
func (a *APIController) ListBookings(c *fiber.Ctx) error {
	user := middleware.ResolveUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
	}

	bookings, err := a.Engine.ListForUser(user)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to retrieve bookings")
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"bookings": Bookings.NewViews(bookings),
	})
}

// GetBooking returns one booking owned by the caller
func (a *APIController) GetBooking(c *fiber.Ctx) error {
	user := middleware.ResolveUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid booking ID")
	}

	booking, err := a.Engine.Get(user, uint(id))
	if err != nil {
		return apiError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"booking": Bookings.NewView(booking),
	})
}

// RescheduleBooking updates the date and time of a pending booking
func (a *APIController) RescheduleBooking(c *fiber.Ctx) error {
	user := middleware.ResolveUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid booking ID")
	}

	var req struct {
		DateTime string `json:"date_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid JSON data")
	}
	if req.DateTime == "" {
		return jsonError(c, fiber.StatusBadRequest, "Missing date_time field")
	}

	booking, err := a.Engine.Reschedule(user, uint(id), req.DateTime)
	if err != nil {
		return apiError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Booking rescheduled successfully",
		"booking": fiber.Map{
			"id":         booking.ID,
			"booking_id": booking.BookingID,
			"date_time":  booking.DateTime.Format(Models.DateTimeLayout),
			"status":     booking.Status,
		},
	})
}

// CancelBooking cancels a pending booking
func (a *APIController) CancelBooking(c *fiber.Ctx) error {
	user := middleware.ResolveUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid booking ID")
	}

	if _, err := a.Engine.Get(user, uint(id)); err != nil {
		return apiError(c, err)
	}
	if _, err := a.Engine.Cancel(user, uint(id)); err != nil {
		if err == Bookings.ErrInvalidStatus {
			return jsonError(c, fiber.StatusBadRequest, "Only pending bookings can be cancelled")
		}
		return apiError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Booking cancelled successfully",
	})
}
