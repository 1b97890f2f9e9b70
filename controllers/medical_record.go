package controllers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/medvault/medvault-server/db"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/utils"
)

// UploadMedicalRecord stores the uploaded file in Cloudinary and creates the
// record row. Patients upload their own records; doctors upload for patients
// they have an appointment with.
func UploadMedicalRecord(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}
	role, _ := c.Locals("role").(string)

	title := c.FormValue("title")
	recordType := models.RecordType(c.FormValue("record_type"))
	if title == "" || recordType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Title and record type are required",
		})
	}

	record := models.MedicalRecord{
		Title:       title,
		Description: c.FormValue("description"),
		RecordType:  recordType,
		RecordDate:  time.Now(),
	}

	switch models.Role(role) {
	case models.RolePatient:
		record.PatientID = userID
	case models.RoleDoctor:
		patientID, err := c.ParamsInt("patientId")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid patient ID",
			})
		}
		// The doctor must have at least one appointment with this patient.
		var count int64
		db.DB.Model(&models.Appointment{}).
			Where("doctor_id = ? AND patient_id = ?", userID, patientID).
			Count(&count)
		if count == 0 {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "You can only add records for your own patients",
			})
		}
		record.PatientID = uint(patientID)
		record.DoctorID = &userID
	default:
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Access denied",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename)))
		if err := c.SaveFile(fileHeader, tempPath); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to store uploaded file",
				Error:   err.Error(),
			})
		}
		defer os.Remove(tempPath)

		fileURL, err := utils.UploadToCloudinary(tempPath, uuid.NewString(), "medical-records")
		if err != nil {
			log.Printf("Cloudinary upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to upload file",
				Error:   err.Error(),
			})
		}
		record.FileURL = fileURL
	}

	if err := db.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create medical record",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetMyMedicalRecords lists the patient's records, newest first.
func GetMyMedicalRecords(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var records []models.MedicalRecord
	if err := db.DB.
		Where("patient_id = ?", patientID).
		Order("record_date desc").
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch medical records",
			Error:   err.Error(),
		})
	}
	return c.JSON(records)
}

// GetPatientMedicalRecords lets a doctor view records for a patient they
// have an appointment with.
func GetPatientMedicalRecords(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	patientID, err := c.ParamsInt("patientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid patient ID",
		})
	}

	var count int64
	db.DB.Model(&models.Appointment{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count)
	if count == 0 {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You can only view records for your own patients",
		})
	}

	var records []models.MedicalRecord
	if err := db.DB.
		Where("patient_id = ?", patientID).
		Order("record_date desc").
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch medical records",
			Error:   err.Error(),
		})
	}
	return c.JSON(records)
}
