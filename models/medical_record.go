package models

import (
	"time"
)

type RecordType string

const (
	RecordPrescription RecordType = "PRESCRIPTION"
	RecordTestReport   RecordType = "TEST_REPORT"
	RecordDiagnosis    RecordType = "DIAGNOSIS"
	RecordImaging      RecordType = "IMAGING"
	RecordVaccination  RecordType = "VACCINATION"
	RecordOther        RecordType = "OTHER"
)

type MedicalRecord struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	PatientID   uint       `json:"patient_id" gorm:"not null"`
	DoctorID    *uint      `json:"doctor_id"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"size:2000"`
	RecordType  RecordType `json:"record_type" gorm:"not null"`
	FileURL     string     `json:"file_url"`
	RecordDate  time.Time  `json:"record_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
