package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/controllers"
	"github.com/medvault/medvault-server/middleware"
	"github.com/medvault/medvault-server/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/api/appointments", middleware.Protected())

	appointment.Get("/my-appointments",
		middleware.RequireRole(models.RolePatient, models.RoleDoctor),
		controllers.GetMyAppointments)
	appointment.Post("/book",
		middleware.RequireRole(models.RolePatient),
		controllers.BookAppointment)
	appointment.Put("/:id/status",
		middleware.RequireRole(models.RoleDoctor),
		controllers.UpdateAppointmentStatus)
	appointment.Get("/:id",
		middleware.RequireRole(models.RolePatient, models.RoleDoctor, models.RoleAdmin),
		controllers.GetAppointment)
	appointment.Delete("/:id",
		middleware.RequireRole(models.RolePatient),
		controllers.CancelAppointment)
}
