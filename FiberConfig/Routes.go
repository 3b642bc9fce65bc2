package FiberConfig

import (
	"fmt"
	"log"
	"os"

	"AutoWash/Audit"
	"AutoWash/Bookings"
	"AutoWash/Controllers"
	"AutoWash/Models"
	"AutoWash/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"
)

// SetupRoutes wires every surface onto the app
func SetupRoutes(app *fiber.App, db *gorm.DB, audit *Audit.Recorder) {
	// Initialize handlers
	engine := Bookings.NewEngine(db, audit)
	authController := Controllers.NewAuthController(db)
	bookingController := Controllers.NewBookingController(engine)
	apiController := Controllers.NewAPIController(db, engine)
	adminController := Controllers.NewAdminController(db, engine, audit)
	serviceController := Controllers.NewServiceController(db, audit)
	settingsController := Controllers.NewSettingsController(db, audit)
	reportController := Controllers.NewReportController(db, audit)

	// Public pages
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/login") })
	app.Get("/login", authController.LoginPage)
	app.Post("/login", authController.Login)
	app.Get("/register", authController.RegisterPage)
	app.Post("/register", authController.Register)
	app.Get("/logout", authController.Logout)

	// Customer pages
	pages := app.Group("/", middleware.Verify(Models.PermissionCustomer))
	pages.Get("/dashboard", bookingController.Dashboard)
	pages.Get("/profile", authController.ProfilePage)
	pages.Post("/profile", authController.UpdateProfile)
	pages.Get("/booking", bookingController.BookingPage)
	pages.Post("/booking", bookingController.CreateBooking)
	pages.Get("/mybookings", bookingController.MyBookings)
	pages.Get("/bookings/:id/reschedule", bookingController.ReschedulePage)
	pages.Post("/bookings/:id/reschedule", bookingController.Reschedule)
	pages.Get("/bookings/:id/cancel", bookingController.CancelPage)
	pages.Post("/bookings/:id/cancel", bookingController.Cancel)
	pages.Post("/bookings/:id/duplicate", bookingController.BookAgain)
	pages.Get("/bookings/:id/receipt", bookingController.Receipt)

	// Admin panel
	app.Get("/admin/login", adminController.LoginPage)
	app.Post("/admin/login", adminController.Login)

	admin := app.Group("/admin", middleware.Verify(Models.PermissionStaff))
	admin.Get("/logout", adminController.Logout)
	admin.Get("/dashboard", adminController.Dashboard)
	admin.Get("/users", adminController.Users)
	admin.Get("/users/new", adminController.UserForm)
	admin.Post("/users", adminController.CreateUser)
	admin.Get("/users/:id/edit", adminController.UserForm)
	admin.Post("/users/:id", adminController.UpdateUser)
	admin.Post("/users/:id/toggle", adminController.ToggleUser)
	admin.Get("/services", serviceController.Services)
	admin.Get("/services/new", serviceController.ServiceForm)
	admin.Post("/services", serviceController.CreateService)
	admin.Get("/services/:id/edit", serviceController.ServiceForm)
	admin.Post("/services/:id", serviceController.UpdateService)
	admin.Post("/services/:id/delete", serviceController.DeleteService)
	admin.Get("/bookings", adminController.AllBookings)
	admin.Get("/bookings/export", reportController.ExportBookings)
	admin.Get("/bookings/:id", adminController.BookingDetail)
	admin.Post("/bookings/:id/status", adminController.UpdateBookingStatus)
	admin.Get("/settings", settingsController.SettingsPage)
	admin.Post("/settings", settingsController.UpdateSettings)

	// JSON API (token or session authenticated)
	api := app.Group("/api")
	api.Post("/login", apiController.Login)
	api.All("/login", Controllers.MethodNotAllowed)
	api.Post("/register", apiController.Register)
	api.All("/register", Controllers.MethodNotAllowed)
	api.Post("/token", apiController.Token)
	api.All("/token", Controllers.MethodNotAllowed)
	api.Get("/auth-status", apiController.AuthStatus)
	api.Get("/services", apiController.Services)
	api.All("/services", Controllers.MethodNotAllowed)
	api.Get("/bookings", apiController.ListBookings)
	api.Post("/bookings", apiController.CreateBooking)
	api.All("/bookings", Controllers.MethodNotAllowed)
	api.Get("/bookings/:id", apiController.GetBooking)
	api.Put("/bookings/:id", apiController.RescheduleBooking)
	api.Delete("/bookings/:id", apiController.CancelBooking)
	api.All("/bookings/:id", Controllers.MethodNotAllowed)
}

// NewApp builds the fiber app with the standard middleware stack
func NewApp(db *gorm.DB, audit *Audit.Recorder) *fiber.App {
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, db, audit)
	return app
}

// FiberConfig starts the HTTP server
func FiberConfig(audit *Audit.Recorder) {
	fmt.Println("Server Up...")
	app := NewApp(Models.DB, audit)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
