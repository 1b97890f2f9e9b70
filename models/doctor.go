package models

import (
	"time"
)

// Doctor is the profile row for users with the DOCTOR role, keyed by user id.
// IsActive gates whether the doctor is currently accepting appointments.
type Doctor struct {
	UserID              uint      `json:"user_id" gorm:"primaryKey"`
	User                User      `json:"user" gorm:"foreignKey:UserID"`
	Specialization      string    `json:"specialization"`
	LicenseNumber       string    `json:"license_number" gorm:"unique"`
	Qualification       string    `json:"qualification"`
	ExperienceYears     int       `json:"experience_years"`
	Bio                 string    `json:"bio"`
	HospitalAffiliation string    `json:"hospital_affiliation"`
	ConsultationFee     float64   `json:"consultation_fee"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DisplayName is the honorific form used in patient-facing messages.
func (d *Doctor) DisplayName() string {
	return "Dr. " + d.User.FullName()
}
