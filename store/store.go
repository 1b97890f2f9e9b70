package store

import (
	"github.com/medvault/medvault-server/models"
)

// Store is the persistence surface the appointment lifecycle engine and its
// side-effect handlers run against.
type Store interface {
	GetPatient(id uint) (*models.Patient, error)
	GetDoctor(id uint) (*models.Doctor, error)

	CreateAppointment(appointment *models.Appointment) error
	GetAppointment(id uint) (*models.Appointment, error)

	// TransitionAppointment loads the appointment, applies the mutation, and
	// persists it atomically with respect to the row: the read and the write
	// happen under the same row lock, so a concurrent transition observes the
	// committed status, never a stale one. An error from apply aborts without
	// writing.
	TransitionAppointment(id uint, apply func(*models.Appointment) error) (*models.Appointment, error)

	ListAppointmentsByPatient(patientID uint) ([]models.Appointment, error)
	ListAppointmentsByDoctor(doctorID uint) ([]models.Appointment, error)

	CreateNotification(notification *models.Notification) error
}
