package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/medvault/medvault-server/db"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/utils"
)

// StartCronJobs initializes and starts the cron scheduler for appointment
// reminders and account cleanup
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()
	// Run every minute to check for appointments in the next hour
	_, err := c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}
	// Run at 2 AM daily to remove doctor accounts that never set a password
	_, err = c.AddFunc("0 2 * * *", cleanupUnverifiedUsers)
	if err != nil {
		log.Fatalf("Failed to add cleanup cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started")
}

// sendAppointmentReminders checks for upcoming appointments and sends reminders
func sendAppointmentReminders() {
	var appointments []models.Appointment
	now := time.Now()
	// Look for appointments starting in the next hour
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	err := db.DB.Preload("Patient.User").Preload("Doctor.User").
		Where("status = ? AND appointment_date_time BETWEEN ? AND ?", models.StatusApproved, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Patient.User.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := "Reminder: Upcoming Appointment"
	body := fmt.Sprintf(`
		<h2>Appointment Reminder</h2>
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment:</p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Date & Time:</strong> %s</li>
			<li><strong>Reason:</strong> %s</li>
		</ul>
		<p>Please arrive a few minutes early.</p>
		<p>Best regards,<br>MedVault Team</p>
	`,
		appointment.Patient.User.FullName(),
		appointment.Doctor.DisplayName(),
		appointment.AppointmentDateTime.Format("2006-01-02 15:04"),
		appointment.ReasonForVisit,
	)
	return utils.SendEmail(appointment.Patient.User.Email, subject, body)
}

// cleanupUnverifiedUsers removes accounts whose set-password token expired
// before the password was ever set
func cleanupUnverifiedUsers() {
	removeExpiredUnverifiedAccounts(db.DB)
}

func removeExpiredUnverifiedAccounts(conn *gorm.DB) {
	err := conn.Transaction(func(tx *gorm.DB) error {
		var userIDs []uint
		if err := tx.Model(&models.User{}).
			Where("is_password_set = ? AND password_reset_token_expiry IS NOT NULL AND password_reset_token_expiry < ?", false, time.Now()).
			Pluck("id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		// The doctor profile is a separate row with no cascade constraint.
		// Remove it with the account so the public directory and booking
		// paths cannot see a deleted doctor.
		if err := tx.Where("user_id IN ?", userIDs).Delete(&models.Doctor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", userIDs).Delete(&models.User{}).Error; err != nil {
			return err
		}
		log.Printf("Removed %d unverified user accounts", len(userIDs))
		return nil
	})
	if err != nil {
		log.Printf("Error cleaning up unverified users: %v", err)
	}
}
