package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/db"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/utils"
)

// CreateFeedback lets a patient rate one of their completed appointments.
func CreateFeedback(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var input struct {
		AppointmentID uint   `json:"appointment_id"`
		Rating        int    `json:"rating"`
		Comment       string `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.Rating < 1 || input.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Rating must be between 1 and 5",
		})
	}

	var appointment models.Appointment
	if db.DB.First(&appointment, input.AppointmentID).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
		})
	}
	if appointment.PatientID != patientID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You can only leave feedback on your own appointments",
		})
	}
	if appointment.Status != models.StatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Feedback is only allowed on completed appointments",
		})
	}

	var existing models.Feedback
	if db.DB.Where("appointment_id = ?", appointment.ID).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Feedback already submitted for this appointment",
		})
	}

	feedback := models.Feedback{
		AppointmentID: appointment.ID,
		PatientID:     patientID,
		DoctorID:      appointment.DoctorID,
		Rating:        input.Rating,
		Comment:       input.Comment,
	}
	if err := db.DB.Create(&feedback).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create feedback",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(feedback)
}

// GetDoctorFeedback lists a doctor's feedback with the average rating.
func GetDoctorFeedback(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	var feedbacks []models.Feedback
	if err := db.DB.
		Where("doctor_id = ?", doctorID).
		Order("created_at desc").
		Find(&feedbacks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch feedback",
			Error:   err.Error(),
		})
	}

	var average float64
	db.DB.Model(&models.Feedback{}).
		Where("doctor_id = ?", doctorID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&average)

	return c.JSON(fiber.Map{
		"feedback":       feedbacks,
		"count":          len(feedbacks),
		"average_rating": average,
	})
}
