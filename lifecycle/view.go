package lifecycle

import (
	"time"

	"github.com/medvault/medvault-server/models"
)

// AppointmentView is the denormalized projection returned to callers: the
// appointment row plus display names and specialization pulled from the
// related patient and doctor records.
type AppointmentView struct {
	ID                   uint                     `json:"id"`
	PatientID            uint                     `json:"patient_id"`
	PatientName          string                   `json:"patient_name"`
	DoctorID             uint                     `json:"doctor_id"`
	DoctorName           string                   `json:"doctor_name"`
	DoctorSpecialization string                   `json:"doctor_specialization"`
	AppointmentDateTime  time.Time                `json:"appointment_date_time"`
	ReasonForVisit       string                   `json:"reason_for_visit"`
	Symptoms             string                   `json:"symptoms,omitempty"`
	Status               models.AppointmentStatus `json:"status"`
	DoctorNotes          string                   `json:"doctor_notes,omitempty"`
	RejectionReason      string                   `json:"rejection_reason,omitempty"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

func NewAppointmentView(appointment *models.Appointment) AppointmentView {
	return AppointmentView{
		ID:                   appointment.ID,
		PatientID:            appointment.PatientID,
		PatientName:          appointment.Patient.User.FullName(),
		DoctorID:             appointment.DoctorID,
		DoctorName:           appointment.Doctor.DisplayName(),
		DoctorSpecialization: appointment.Doctor.Specialization,
		AppointmentDateTime:  appointment.AppointmentDateTime,
		ReasonForVisit:       appointment.ReasonForVisit,
		Symptoms:             appointment.Symptoms,
		Status:               appointment.Status,
		DoctorNotes:          appointment.DoctorNotes,
		RejectionReason:      appointment.RejectionReason,
		CreatedAt:            appointment.CreatedAt,
		UpdatedAt:            appointment.UpdatedAt,
	}
}

func newAppointmentViews(appointments []models.Appointment) []AppointmentView {
	views := make([]AppointmentView, 0, len(appointments))
	for i := range appointments {
		views = append(views, NewAppointmentView(&appointments[i]))
	}
	return views
}
