package models

import (
	"time"
)

// Patient is the profile row for users with the PATIENT role, keyed by user id.
type Patient struct {
	UserID                uint       `json:"user_id" gorm:"primaryKey"`
	User                  User       `json:"user" gorm:"foreignKey:UserID"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	Gender                string     `json:"gender"`
	BloodGroup            string     `json:"blood_group"`
	Address               string     `json:"address"`
	MedicalHistory        string     `json:"medical_history"`
	Allergies             string     `json:"allergies"`
	EmergencyContactName  string     `json:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
