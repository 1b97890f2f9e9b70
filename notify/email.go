package notify

import (
	"fmt"
	"log"

	"github.com/medvault/medvault-server/events"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/utils"
)

const timeLayout = "2006-01-02 15:04"

// EmailHandler sends the emails a committed appointment change fans out to.
// Every send is best-effort: a failure is logged and the remaining emails are
// still attempted.
type EmailHandler struct {
	Send func(to, subject, body string) error
}

func NewEmailHandler() *EmailHandler {
	return &EmailHandler{Send: utils.SendEmail}
}

func (h *EmailHandler) Name() string { return "email" }

func (h *EmailHandler) Handle(event events.Event) error {
	appointment := event.Appointment
	patient := appointment.Patient.User
	doctor := appointment.Doctor

	switch event.Type {
	case events.AppointmentBooked:
		h.send(patient.Email, "Appointment Confirmation - MedVault",
			confirmationBody(&appointment))
		h.send(doctor.User.Email, "New Appointment Request - MedVault",
			newBookingBody(&appointment))
	case events.AppointmentStatusChanged:
		subject := fmt.Sprintf("Appointment %s - MedVault", event.NewStatus)
		h.send(patient.Email, subject, statusBody(&appointment, event.NewStatus))
		if event.NewStatus == models.StatusCompleted {
			h.send(patient.Email, "How was your appointment? - MedVault",
				feedbackRequestBody(&appointment))
		}
	}
	return nil
}

func (h *EmailHandler) send(to, subject, body string) {
	if err := h.Send(to, subject, body); err != nil {
		log.Printf("Failed to send %q email to %s: %v", subject, to, err)
	}
}

func confirmationBody(appointment *models.Appointment) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment has been booked successfully and is pending approval.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Specialization:</strong> %s</li>
			<li><strong>Date &amp; Time:</strong> %s</li>
			<li><strong>Reason:</strong> %s</li>
		</ul>
		<p>You will be notified once the doctor reviews your request.</p>
		<p>Best regards,</p>
		<p>The MedVault Team</p>
	`, appointment.Patient.User.FullName(),
		appointment.Doctor.DisplayName(),
		appointment.Doctor.Specialization,
		appointment.AppointmentDateTime.Format(timeLayout),
		appointment.ReasonForVisit)
}

func newBookingBody(appointment *models.Appointment) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have a new appointment request.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Patient:</strong> %s</li>
			<li><strong>Date &amp; Time:</strong> %s</li>
			<li><strong>Reason:</strong> %s</li>
		</ul>
		<p>Please approve or reject the request from your dashboard.</p>
		<p>Best regards,</p>
		<p>The MedVault Team</p>
	`, appointment.Doctor.User.FullName(),
		appointment.Patient.User.FullName(),
		appointment.AppointmentDateTime.Format(timeLayout),
		appointment.ReasonForVisit)
}

func statusBody(appointment *models.Appointment, status models.AppointmentStatus) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>%s</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Date &amp; Time:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>Thank you for using MedVault.</p>
		<p>Best regards,</p>
		<p>The MedVault Team</p>
	`, appointment.Patient.User.FullName(),
		StatusMessage(appointment.Doctor.DisplayName(), status),
		appointment.Doctor.DisplayName(),
		appointment.AppointmentDateTime.Format(timeLayout),
		status)
}

func feedbackRequestBody(appointment *models.Appointment) string {
	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment with %s has been completed. We would love to hear
		how it went.</p>
		<p>Please take a moment to leave feedback for appointment #%d from your
		dashboard.</p>
		<p>Best regards,</p>
		<p>The MedVault Team</p>
	`, appointment.Patient.User.FullName(),
		appointment.Doctor.DisplayName(),
		appointment.ID)
}
