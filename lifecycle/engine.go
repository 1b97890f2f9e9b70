package lifecycle

import (
	"log"
	"time"

	"github.com/medvault/medvault-server/events"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/store"
)

// BookRequest carries the patient's booking input.
type BookRequest struct {
	DoctorID            uint      `json:"doctor_id"`
	AppointmentDateTime time.Time `json:"appointment_date_time"`
	ReasonForVisit      string    `json:"reason_for_visit"`
	Symptoms            string    `json:"symptoms"`
}

// Engine owns the appointment lifecycle: booking, doctor-driven status
// transitions, patient cancellation, and the post-commit side-effect fan-out.
// All writes commit before any side effect is attempted; side effects are
// advisory and may silently fail.
type Engine struct {
	store      store.Store
	dispatcher *events.Dispatcher
	now        func() time.Time
}

func NewEngine(s store.Store, d *events.Dispatcher) *Engine {
	return &Engine{store: s, dispatcher: d, now: time.Now}
}

// Book creates a PENDING appointment for the patient with the given doctor.
func (e *Engine) Book(patientID uint, req BookRequest) (*AppointmentView, error) {
	patient, err := e.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}
	doctor, err := e.store.GetDoctor(req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		return nil, store.ErrDoctorInactive
	}
	if req.ReasonForVisit == "" {
		return nil, store.ErrReasonRequired
	}
	if !req.AppointmentDateTime.After(e.now()) {
		return nil, store.ErrPastAppointment
	}

	appointment := &models.Appointment{
		PatientID:           patientID,
		DoctorID:            req.DoctorID,
		AppointmentDateTime: req.AppointmentDateTime,
		ReasonForVisit:      req.ReasonForVisit,
		Symptoms:            req.Symptoms,
		Status:              models.StatusPending,
	}
	if err := e.store.CreateAppointment(appointment); err != nil {
		return nil, err
	}
	log.Printf("Appointment %d booked: patient %d with doctor %d", appointment.ID, patientID, req.DoctorID)

	appointment.Patient = *patient
	appointment.Doctor = *doctor
	e.dispatcher.Dispatch(events.Event{
		Type:        events.AppointmentBooked,
		Appointment: *appointment,
	})

	view := NewAppointmentView(appointment)
	return &view, nil
}

// UpdateStatus applies a doctor-driven status transition. The ownership and
// transition checks run inside the same transaction that writes the new
// status, so concurrent calls on one appointment cannot both win.
func (e *Engine) UpdateStatus(appointmentID uint, newStatus models.AppointmentStatus, notes string, doctorID uint) (*AppointmentView, error) {
	if !models.ValidStatus(newStatus) {
		return nil, store.ErrInvalidTransition
	}

	updated, err := e.store.TransitionAppointment(appointmentID, func(appointment *models.Appointment) error {
		if appointment.DoctorID != doctorID {
			return store.ErrNotOwner
		}
		if !models.CanTransition(appointment.Status, newStatus) {
			return store.ErrInvalidTransition
		}
		appointment.Status = newStatus
		if notes != "" {
			if newStatus == models.StatusRejected || newStatus == models.StatusCancelled {
				appointment.RejectionReason = notes
			} else {
				appointment.DoctorNotes = notes
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Appointment %d status updated to %s by doctor %d", appointmentID, newStatus, doctorID)

	e.dispatcher.Dispatch(events.Event{
		Type:        events.AppointmentStatusChanged,
		Appointment: *updated,
		NewStatus:   newStatus,
	})

	view := NewAppointmentView(updated)
	return &view, nil
}

// Cancel transitions a patient's own appointment to CANCELLED. Completed and
// other terminal appointments cannot be cancelled. No side effects are
// dispatched for a patient cancellation.
func (e *Engine) Cancel(appointmentID, patientID uint) error {
	_, err := e.store.TransitionAppointment(appointmentID, func(appointment *models.Appointment) error {
		if appointment.PatientID != patientID {
			return store.ErrNotOwner
		}
		if !models.CanTransition(appointment.Status, models.StatusCancelled) {
			return store.ErrInvalidTransition
		}
		appointment.Status = models.StatusCancelled
		appointment.RejectionReason = models.CancelledByPatientReason
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("Appointment %d cancelled by patient %d", appointmentID, patientID)
	return nil
}

// Get returns a single appointment view.
func (e *Engine) Get(appointmentID uint) (*AppointmentView, error) {
	appointment, err := e.store.GetAppointment(appointmentID)
	if err != nil {
		return nil, err
	}
	view := NewAppointmentView(appointment)
	return &view, nil
}

// ListByPatient returns the patient's appointments, most recent first.
func (e *Engine) ListByPatient(patientID uint) ([]AppointmentView, error) {
	appointments, err := e.store.ListAppointmentsByPatient(patientID)
	if err != nil {
		return nil, err
	}
	return newAppointmentViews(appointments), nil
}

// ListByDoctor returns the doctor's appointments, most recent first.
func (e *Engine) ListByDoctor(doctorID uint) ([]AppointmentView, error) {
	appointments, err := e.store.ListAppointmentsByDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	return newAppointmentViews(appointments), nil
}
