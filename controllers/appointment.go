package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/lifecycle"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/store"
	"github.com/medvault/medvault-server/utils"
)

// Engine is the appointment lifecycle engine, wired up in main.
var Engine *lifecycle.Engine

// appointmentError maps lifecycle errors onto HTTP status codes.
func appointmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrPatientNotFound),
		errors.Is(err, store.ErrDoctorNotFound),
		errors.Is(err, store.ErrAppointmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{Message: err.Error()})
	case errors.Is(err, store.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{Message: err.Error()})
	case errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrDoctorInactive):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{Message: err.Error()})
	case errors.Is(err, store.ErrPastAppointment),
		errors.Is(err, store.ErrReasonRequired):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Internal server error",
			Error:   err.Error(),
		})
	}
}

// BookAppointment lets the authenticated patient book with a doctor.
func BookAppointment(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var req lifecycle.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if req.DoctorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Doctor ID is required",
		})
	}
	if req.ReasonForVisit == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Reason for visit is required",
		})
	}

	appointment, err := Engine.Book(patientID, req)
	if err != nil {
		return appointmentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// UpdateAppointmentStatus lets the owning doctor approve, reject, complete,
// or cancel an appointment.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	appointmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	var updateData struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	newStatus := models.AppointmentStatus(updateData.Status)
	if !models.ValidStatus(newStatus) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status. Must be APPROVED, REJECTED, COMPLETED, or CANCELLED.",
		})
	}

	appointment, err := Engine.UpdateStatus(uint(appointmentID), newStatus, updateData.Notes, doctorID)
	if err != nil {
		return appointmentError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Appointment status updated successfully",
		"appointment": appointment,
	})
}

// CancelAppointment lets the owning patient cancel a not-yet-completed
// appointment.
func CancelAppointment(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	appointmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	if err := Engine.Cancel(uint(appointmentID), patientID); err != nil {
		return appointmentError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Appointment cancelled successfully",
	})
}

// GetAppointment returns a single appointment.
func GetAppointment(c *fiber.Ctx) error {
	appointmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	appointment, err := Engine.Get(uint(appointmentID))
	if err != nil {
		return appointmentError(c, err)
	}
	return c.JSON(appointment)
}

// GetMyAppointments lists the caller's appointments, newest first, based on
// their role.
func GetMyAppointments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}
	role, _ := c.Locals("role").(string)

	var (
		appointments []lifecycle.AppointmentView
		err          error
	)
	switch models.Role(role) {
	case models.RolePatient:
		appointments, err = Engine.ListByPatient(userID)
	case models.RoleDoctor:
		appointments, err = Engine.ListByDoctor(userID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid user role",
		})
	}
	if err != nil {
		return appointmentError(c, err)
	}
	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
	})
}
