package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/db"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/redis"
	"github.com/medvault/medvault-server/utils"
)

const (
	doctorDirectoryCacheKey = "doctors:directory"
	doctorDirectoryCacheTTL = 5 * time.Minute
)

// GetDoctors returns the public directory of active doctors, served from
// redis when fresh.
func GetDoctors(c *fiber.Ctx) error {
	if redis.Client != nil {
		if cached, err := redis.Client.Get(redis.Ctx, doctorDirectoryCacheKey).Result(); err == nil {
			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}
	}

	var doctors []models.Doctor
	if err := db.DB.Preload("User").Where("is_active = ?", true).Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctors",
			Error:   err.Error(),
		})
	}

	// Strip credential fields before caching
	for i := range doctors {
		doctors[i].User.Password = ""
	}

	if redis.Client != nil {
		if payload, err := json.Marshal(doctors); err == nil {
			if err := redis.Client.Set(redis.Ctx, doctorDirectoryCacheKey, payload, doctorDirectoryCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache doctor directory: %v", err)
			}
		}
	}

	return c.JSON(doctors)
}

// invalidateDoctorDirectory drops the cached listing after an admin write.
func invalidateDoctorDirectory() {
	if redis.Client == nil {
		return
	}
	if err := redis.Client.Del(redis.Ctx, doctorDirectoryCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate doctor directory cache: %v", err)
	}
}

// GetDoctor returns one doctor's public profile.
func GetDoctor(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	var doctor models.Doctor
	if db.DB.Preload("User").First(&doctor, "user_id = ?", doctorID).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
		})
	}
	doctor.User.Password = ""
	return c.JSON(doctor)
}

// CreateDoctor provisions a doctor account (admin only). The doctor receives
// a one-time set-password link by email; until it is used the account cannot
// log in and is swept by the cleanup job once the token expires.
func CreateDoctor(c *fiber.Ctx) error {
	var input struct {
		FirstName           string  `json:"first_name"`
		LastName            string  `json:"last_name"`
		Email               string  `json:"email"`
		Phone               string  `json:"phone"`
		Specialization      string  `json:"specialization"`
		LicenseNumber       string  `json:"license_number"`
		Qualification       string  `json:"qualification"`
		ExperienceYears     int     `json:"experience_years"`
		Bio                 string  `json:"bio"`
		HospitalAffiliation string  `json:"hospital_affiliation"`
		ConsultationFee     float64 `json:"consultation_fee"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.Email == "" || input.FirstName == "" || input.LastName == "" ||
		input.Specialization == "" || input.LicenseNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
		})
	}

	var existingUser models.User
	if db.DB.Where("email = ?", input.Email).First(&existingUser).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "User with this email already exists",
		})
	}

	token, expiry := utils.GenerateSetPasswordToken()
	user := models.User{
		FirstName:                input.FirstName,
		LastName:                 input.LastName,
		Email:                    input.Email,
		Phone:                    input.Phone,
		Role:                     models.RoleDoctor,
		IsPasswordSet:            false,
		PasswordResetToken:       token,
		PasswordResetTokenExpiry: &expiry,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create doctor",
			Error:   err.Error(),
		})
	}

	doctor := models.Doctor{
		UserID:              user.ID,
		Specialization:      input.Specialization,
		LicenseNumber:       input.LicenseNumber,
		Qualification:       input.Qualification,
		ExperienceYears:     input.ExperienceYears,
		Bio:                 input.Bio,
		HospitalAffiliation: input.HospitalAffiliation,
		ConsultationFee:     input.ConsultationFee,
		IsActive:            true,
	}
	if err := db.DB.Create(&doctor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create doctor profile",
			Error:   err.Error(),
		})
	}

	invalidateDoctorDirectory()

	// Best-effort onboarding email; the account is still created if it fails.
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	setPasswordLink := fmt.Sprintf("%s/set-password?token=%s", baseURL, token)
	body := fmt.Sprintf(`
		<p>Dear Dr. %s,</p>
		<p>An account has been created for you on MedVault.</p>
		<p>Please set your password using the link below. The link expires in 24 hours.</p>
		<p><a href="%s">Set your password</a></p>
		<p>Best regards,</p>
		<p>The MedVault Team</p>
	`, user.FullName(), setPasswordLink)
	if err := utils.SendEmail(user.Email, "Set Your MedVault Password - Action Required", body); err != nil {
		log.Printf("Failed to send set-password email to %s: %v", user.Email, err)
	}

	user.Password = ""
	doctor.User = user
	return c.Status(fiber.StatusCreated).JSON(doctor)
}

// UpdateDoctorProfile lets a doctor update their own public profile.
func UpdateDoctorProfile(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var doctor models.Doctor
	if db.DB.First(&doctor, "user_id = ?", doctorID).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
		})
	}

	var input struct {
		Qualification       *string  `json:"qualification"`
		ExperienceYears     *int     `json:"experience_years"`
		Bio                 *string  `json:"bio"`
		HospitalAffiliation *string  `json:"hospital_affiliation"`
		ConsultationFee     *float64 `json:"consultation_fee"`
		IsActive            *bool    `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	updates := map[string]interface{}{}
	if input.Qualification != nil {
		updates["qualification"] = *input.Qualification
	}
	if input.ExperienceYears != nil {
		updates["experience_years"] = *input.ExperienceYears
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.HospitalAffiliation != nil {
		updates["hospital_affiliation"] = *input.HospitalAffiliation
	}
	if input.ConsultationFee != nil {
		updates["consultation_fee"] = *input.ConsultationFee
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := db.DB.Model(&doctor).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update doctor profile",
				Error:   err.Error(),
			})
		}
		invalidateDoctorDirectory()
	}

	return c.JSON(doctor)
}
