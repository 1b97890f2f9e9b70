package store

import "errors"

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentExists       = errors.New("payment already exists for this appointment")
	ErrDoctorInactive      = errors.New("doctor is not currently accepting appointments")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotOwner            = errors.New("not the owner of this appointment")
	ErrPastAppointment     = errors.New("appointment must be in the future")
	ErrReasonRequired      = errors.New("reason for visit is required")
)
