package models

import (
	"time"
)

// Feedback is a patient's rating of a completed appointment, one per appointment.
type Feedback struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	AppointmentID uint      `json:"appointment_id" gorm:"not null;uniqueIndex"`
	PatientID     uint      `json:"patient_id" gorm:"not null"`
	DoctorID      uint      `json:"doctor_id" gorm:"not null"`
	Rating        int       `json:"rating" gorm:"not null"`
	Comment       string    `json:"comment" gorm:"size:1000"`
	CreatedAt     time.Time `json:"created_at"`
}
