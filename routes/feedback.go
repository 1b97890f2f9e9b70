package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/controllers"
	"github.com/medvault/medvault-server/middleware"
	"github.com/medvault/medvault-server/models"
)

// SetupFeedbackRoutes configures the feedback routes
func SetupFeedbackRoutes(app *fiber.App) {
	feedback := app.Group("/api/feedback", middleware.Protected())

	feedback.Post("/",
		middleware.RequireRole(models.RolePatient),
		controllers.CreateFeedback)
}
