package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medvault/medvault-server/db"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/utils"
)

// GetMyNotifications returns the patient's inbox, newest first.
func GetMyNotifications(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var notifications []models.Notification
	if err := db.DB.
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch notifications",
			Error:   err.Error(),
		})
	}
	return c.JSON(notifications)
}

// GetUnreadNotifications returns only the unread inbox entries.
func GetUnreadNotifications(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var notifications []models.Notification
	if err := db.DB.
		Where("patient_id = ? AND is_read = ?", patientID, false).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch notifications",
			Error:   err.Error(),
		})
	}
	return c.JSON(notifications)
}

// MarkNotificationRead marks one of the patient's notifications as read.
func MarkNotificationRead(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid notification ID",
		})
	}

	var notification models.Notification
	if db.DB.Where("id = ? AND patient_id = ?", notificationID, patientID).
		First(&notification).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Notification not found",
		})
	}

	if err := db.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to mark notification as read",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}

// MarkAllNotificationsRead marks every unread notification of the patient.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	if err := db.DB.Model(&models.Notification{}).
		Where("patient_id = ? AND is_read = ?", patientID, false).
		Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to mark notifications as read",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
	})
}
