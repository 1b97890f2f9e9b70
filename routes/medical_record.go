package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/controllers"
	"github.com/medvault/medvault-server/middleware"
	"github.com/medvault/medvault-server/models"
)

// SetupMedicalRecordRoutes configures the medical record routes
func SetupMedicalRecordRoutes(app *fiber.App) {
	record := app.Group("/api/medical-records", middleware.Protected())

	record.Get("/",
		middleware.RequireRole(models.RolePatient),
		controllers.GetMyMedicalRecords)
	record.Post("/",
		middleware.RequireRole(models.RolePatient),
		controllers.UploadMedicalRecord)
	record.Get("/patient/:patientId",
		middleware.RequireRole(models.RoleDoctor),
		controllers.GetPatientMedicalRecords)
	record.Post("/patient/:patientId",
		middleware.RequireRole(models.RoleDoctor),
		controllers.UploadMedicalRecord)
}
