package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/controllers"
	"github.com/medvault/medvault-server/middleware"
	"github.com/medvault/medvault-server/models"
)

// SetupDoctorRoutes configures the doctor directory and provisioning routes
func SetupDoctorRoutes(app *fiber.App) {
	doctor := app.Group("/api/doctors")

	// Public directory
	doctor.Get("/", controllers.GetDoctors)
	doctor.Get("/:id", controllers.GetDoctor)
	doctor.Get("/:id/feedback", controllers.GetDoctorFeedback)

	// Admin provisioning
	doctor.Post("/",
		middleware.Protected(),
		middleware.RequireRole(models.RoleAdmin),
		controllers.CreateDoctor)

	// Doctor self-service
	doctor.Put("/profile",
		middleware.Protected(),
		middleware.RequireRole(models.RoleDoctor),
		controllers.UpdateDoctorProfile)
}
