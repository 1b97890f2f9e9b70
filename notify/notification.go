package notify

import (
	"fmt"

	"github.com/medvault/medvault-server/events"
	"github.com/medvault/medvault-server/models"
)

// NotificationStore is the slice of the store the inbox handler needs.
type NotificationStore interface {
	CreateNotification(notification *models.Notification) error
}

// InboxHandler writes a short message into the patient's notification inbox
// for every committed appointment change.
type InboxHandler struct {
	Store NotificationStore
}

func (h *InboxHandler) Name() string { return "patient-inbox" }

func (h *InboxHandler) Handle(event events.Event) error {
	doctorName := event.Appointment.Doctor.DisplayName()

	var title, message string
	switch event.Type {
	case events.AppointmentBooked:
		title = "Appointment Booked"
		message = fmt.Sprintf("Your appointment with %s has been booked successfully and is pending approval.", doctorName)
	case events.AppointmentStatusChanged:
		title = "Appointment Status Updated"
		message = StatusMessage(doctorName, event.NewStatus)
	default:
		return nil
	}

	return h.Store.CreateNotification(&models.Notification{
		PatientID:        event.Appointment.PatientID,
		Title:            title,
		Message:          message,
		NotificationType: models.NotificationTypeAppointment,
	})
}

// StatusMessage is the patient-facing wording for each status change.
func StatusMessage(doctorName string, status models.AppointmentStatus) string {
	switch status {
	case models.StatusApproved:
		return fmt.Sprintf("Your appointment with %s has been approved.", doctorName)
	case models.StatusRejected:
		return fmt.Sprintf("Your appointment with %s has been rejected.", doctorName)
	case models.StatusCompleted:
		return fmt.Sprintf("Your appointment with %s has been completed. Please leave feedback!", doctorName)
	case models.StatusCancelled:
		return fmt.Sprintf("Your appointment with %s has been cancelled.", doctorName)
	default:
		return fmt.Sprintf("Your appointment status with %s has been updated to %s.", doctorName, status)
	}
}
