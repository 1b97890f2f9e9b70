package models

import (
	"time"
)

const (
	NotificationTypeAppointment  = "APPOINTMENT"
	NotificationTypePrescription = "PRESCRIPTION"
	NotificationTypeCheckup      = "CHECKUP"
)

type Notification struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	PatientID        uint      `json:"patient_id" gorm:"not null"`
	Title            string    `json:"title" gorm:"not null"`
	Message          string    `json:"message" gorm:"size:1000;not null"`
	NotificationType string    `json:"notification_type" gorm:"not null"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}
