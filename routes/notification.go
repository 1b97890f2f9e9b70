package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/controllers"
	"github.com/medvault/medvault-server/middleware"
	"github.com/medvault/medvault-server/models"
)

// SetupNotificationRoutes configures the patient inbox routes
func SetupNotificationRoutes(app *fiber.App) {
	notification := app.Group("/api/notifications",
		middleware.Protected(),
		middleware.RequireRole(models.RolePatient))

	notification.Get("/", controllers.GetMyNotifications)
	notification.Get("/unread", controllers.GetUnreadNotifications)
	notification.Put("/:id/read", controllers.MarkNotificationRead)
	notification.Put("/mark-all-read", controllers.MarkAllNotificationsRead)
}
