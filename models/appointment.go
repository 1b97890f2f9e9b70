package models

import (
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusApproved  AppointmentStatus = "APPROVED"
	StatusRejected  AppointmentStatus = "REJECTED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// CancelledByPatientReason is stored on appointments a patient cancels.
const CancelledByPatientReason = "Cancelled by patient"

// transitions lists the legal next states per current state. States absent
// from the map (REJECTED, COMPLETED, CANCELLED) are terminal.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func IsTerminal(status AppointmentStatus) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether the value is one of the known statuses.
func ValidStatus(status AppointmentStatus) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID                  uint              `json:"id" gorm:"primaryKey"`
	PatientID           uint              `json:"patient_id" gorm:"not null"`
	Patient             Patient           `json:"patient" gorm:"foreignKey:PatientID;references:UserID"`
	DoctorID            uint              `json:"doctor_id" gorm:"not null"`
	Doctor              Doctor            `json:"doctor" gorm:"foreignKey:DoctorID;references:UserID"`
	AppointmentDateTime time.Time         `json:"appointment_date_time" gorm:"not null"`
	Status              AppointmentStatus `json:"status" gorm:"not null"`
	ReasonForVisit      string            `json:"reason_for_visit" gorm:"size:1000"`
	Symptoms            string            `json:"symptoms" gorm:"size:2000"`
	DoctorNotes         string            `json:"doctor_notes" gorm:"size:2000"`
	RejectionReason     string            `json:"rejection_reason" gorm:"size:500"`
	Payment             *Payment          `json:"payment,omitempty" gorm:"foreignKey:AppointmentID"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}
