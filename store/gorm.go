package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medvault/medvault-server/models"
)

// GormStore implements Store on top of the shared gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetPatient(id uint) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.Preload("User").First(&patient, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (s *GormStore) GetDoctor(id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.db.Preload("User").First(&doctor, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (s *GormStore) CreateAppointment(appointment *models.Appointment) error {
	return s.db.Omit(clause.Associations).Create(appointment).Error
}

func (s *GormStore) GetAppointment(id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.
		Preload("Patient.User").
		Preload("Doctor.User").
		Preload("Payment").
		First(&appointment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *GormStore) TransitionAppointment(id uint, apply func(*models.Appointment) error) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the appointment row so the status check and the write are
		// atomic with respect to concurrent transitions.
		if err := tx.Raw(`
			SELECT *
			FROM appointments
			WHERE id = ? FOR UPDATE
		`, id).Scan(&appointment).Error; err != nil {
			return err
		}
		if appointment.ID == 0 {
			return ErrAppointmentNotFound
		}
		if err := apply(&appointment); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&appointment).Error
	})
	if err != nil {
		return nil, err
	}
	// Reload with related rows for the response and the side-effect handlers.
	return s.GetAppointment(appointment.ID)
}

func (s *GormStore) ListAppointmentsByPatient(patientID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.
		Preload("Patient.User").
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("appointment_date_time desc").
		Find(&appointments).Error
	return appointments, err
}

func (s *GormStore) ListAppointmentsByDoctor(doctorID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.
		Preload("Patient.User").
		Preload("Doctor.User").
		Where("doctor_id = ?", doctorID).
		Order("appointment_date_time desc").
		Find(&appointments).Error
	return appointments, err
}

func (s *GormStore) CreateNotification(notification *models.Notification) error {
	return s.db.Create(notification).Error
}
