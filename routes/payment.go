package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/controllers"
	"github.com/medvault/medvault-server/middleware"
	"github.com/medvault/medvault-server/models"
)

// SetupPaymentRoutes configures the payment routes
func SetupPaymentRoutes(app *fiber.App) {
	payment := app.Group("/api/payments", middleware.Protected())

	payment.Post("/order/:appointmentId",
		middleware.RequireRole(models.RolePatient),
		controllers.CreatePaymentOrder)
	payment.Post("/verify",
		middleware.RequireRole(models.RolePatient),
		controllers.VerifyPayment)
	payment.Get("/revenue",
		middleware.RequireRole(models.RoleAdmin),
		controllers.GetTotalRevenue)
	payment.Get("/revenue/doctor/:id",
		middleware.RequireRole(models.RoleDoctor, models.RoleAdmin),
		controllers.GetDoctorRevenue)
}
