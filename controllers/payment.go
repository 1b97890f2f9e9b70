package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	razorpay "github.com/razorpay/razorpay-go"
	razorpayutils "github.com/razorpay/razorpay-go/utils"
	"gorm.io/gorm"

	"github.com/medvault/medvault-server/db"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/utils"
)

// PaymentResponse is the payment projection returned to callers.
type PaymentResponse struct {
	ID                uint                 `json:"id"`
	AppointmentID     uint                 `json:"appointment_id"`
	Amount            float64              `json:"amount"`
	RazorpayOrderID   string               `json:"razorpay_order_id"`
	RazorpayPaymentID string               `json:"razorpay_payment_id,omitempty"`
	Status            models.PaymentStatus `json:"status"`
	PaidAt            *time.Time           `json:"paid_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	PatientID         uint                 `json:"patient_id"`
	PatientName       string               `json:"patient_name"`
	DoctorName        string               `json:"doctor_name"`
}

func newPaymentResponse(payment *models.Payment, appointment *models.Appointment) PaymentResponse {
	return PaymentResponse{
		ID:                payment.ID,
		AppointmentID:     payment.AppointmentID,
		Amount:            payment.Amount,
		RazorpayOrderID:   payment.RazorpayOrderID,
		RazorpayPaymentID: payment.RazorpayPaymentID,
		Status:            payment.Status,
		PaidAt:            payment.PaidAt,
		CreatedAt:         payment.CreatedAt,
		PatientID:         appointment.PatientID,
		PatientName:       appointment.Patient.User.FullName(),
		DoctorName:        appointment.Doctor.DisplayName(),
	}
}

// CreatePaymentOrder creates a Razorpay order for the appointment's
// consultation fee. An appointment gets at most one payment.
func CreatePaymentOrder(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	appointmentID, err := c.ParamsInt("appointmentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	var appointment models.Appointment
	if db.DB.Preload("Patient.User").Preload("Doctor.User").
		First(&appointment, appointmentID).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
		})
	}
	if appointment.PatientID != patientID {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You can only pay for your own appointments",
		})
	}

	var existing models.Payment
	if db.DB.Where("appointment_id = ?", appointment.ID).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Payment already exists for this appointment",
		})
	}

	// Razorpay orders are denominated in paise and must be at least ₹1.
	consultationFee := appointment.Doctor.ConsultationFee
	amountInPaise := int(math.Round(consultationFee * 100))
	if amountInPaise < 100 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Consultation fee must be at least ₹1. Please set a valid consultation fee for the doctor.",
		})
	}

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
	orderData := map[string]interface{}{
		"amount":   amountInPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("receipt_%d", appointment.ID),
	}
	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		log.Printf("Error creating Razorpay order for appointment %d: %v", appointment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create payment order",
			Error:   err.Error(),
		})
	}
	orderID, _ := order["id"].(string)

	payment := models.Payment{
		AppointmentID:   appointment.ID,
		Amount:          consultationFee,
		RazorpayOrderID: orderID,
		Status:          models.PaymentPending,
	}
	if err := db.DB.Create(&payment).Error; err != nil {
		return paymentSaveError(c, err)
	}

	log.Printf("Razorpay order %s created for appointment %d (₹%.2f)", orderID, appointment.ID, consultationFee)
	return c.Status(fiber.StatusCreated).JSON(newPaymentResponse(&payment, &appointment))
}

// paymentSaveError maps a failed payment insert onto the API response. The
// appointment_id unique index backstops the duplicate check when two order
// requests race, so a duplicate-key error is the same conflict the
// sequential path reports.
func paymentSaveError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Payment already exists for this appointment",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: "Failed to save payment",
		Error:   err.Error(),
	})
}

// VerifyPayment checks the gateway signature and marks the payment completed
// or failed.
func VerifyPayment(c *fiber.Ctx) error {
	var input struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var payment models.Payment
	if db.DB.Where("razorpay_order_id = ?", input.RazorpayOrderID).First(&payment).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Payment not found",
		})
	}

	var appointment models.Appointment
	if err := db.DB.Preload("Patient.User").Preload("Doctor.User").
		First(&appointment, payment.AppointmentID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load appointment",
			Error:   err.Error(),
		})
	}

	params := map[string]interface{}{
		"razorpay_order_id":   input.RazorpayOrderID,
		"razorpay_payment_id": input.RazorpayPaymentID,
	}
	valid := razorpayutils.VerifyPaymentSignature(params, input.RazorpaySignature, os.Getenv("RAZORPAY_KEY_SECRET"))

	if valid {
		now := time.Now()
		payment.RazorpayPaymentID = input.RazorpayPaymentID
		payment.RazorpaySignature = input.RazorpaySignature
		payment.Status = models.PaymentCompleted
		payment.PaidAt = &now
	} else {
		payment.Status = models.PaymentFailed
		payment.FailureReason = "Invalid signature"
	}

	if err := db.DB.Save(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update payment",
			Error:   err.Error(),
		})
	}

	// Best-effort confirmation email; never fails the payment.
	if payment.Status == models.PaymentCompleted {
		body := fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>Your payment has been received.</p>
			<p><strong>Details:</strong></p>
			<ul>
				<li><strong>Doctor:</strong> %s</li>
				<li><strong>Amount:</strong> ₹%.2f</li>
				<li><strong>Appointment:</strong> %s</li>
			</ul>
			<p>Best regards,</p>
			<p>The MedVault Team</p>
		`, appointment.Patient.User.FullName(),
			appointment.Doctor.DisplayName(),
			payment.Amount,
			appointment.AppointmentDateTime.Format("2006-01-02 15:04"))
		if err := utils.SendEmail(appointment.Patient.User.Email, "Payment Confirmation - MedVault", body); err != nil {
			log.Printf("Failed to send payment confirmation email: %v", err)
		}
	}

	return c.JSON(newPaymentResponse(&payment, &appointment))
}

// RevenueResponse summarizes completed payments.
type RevenueResponse struct {
	TotalRevenue           float64           `json:"total_revenue"`
	TotalCompletedPayments int64             `json:"total_completed_payments"`
	AverageConsultationFee float64           `json:"average_consultation_fee"`
	RecentPayments         []PaymentResponse `json:"recent_payments"`
}

// GetDoctorRevenue summarizes completed payments for one doctor.
func GetDoctorRevenue(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}
	return revenueSummary(c, func() *gorm.DB {
		return db.DB.Model(&models.Payment{}).
			Joins("JOIN appointments ON appointments.id = payments.appointment_id").
			Where("appointments.doctor_id = ?", doctorID).
			Where("payments.status = ?", models.PaymentCompleted)
	})
}

// GetTotalRevenue summarizes completed payments across the clinic.
func GetTotalRevenue(c *fiber.Ctx) error {
	return revenueSummary(c, func() *gorm.DB {
		return db.DB.Model(&models.Payment{}).
			Where("payments.status = ?", models.PaymentCompleted)
	})
}

func revenueSummary(c *fiber.Ctx, scope func() *gorm.DB) error {
	var total float64
	if err := scope().Select("COALESCE(SUM(payments.amount), 0)").Scan(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to compute revenue",
			Error:   err.Error(),
		})
	}

	var count int64
	if err := scope().Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to count payments",
			Error:   err.Error(),
		})
	}

	var payments []models.Payment
	if err := scope().Order("payments.created_at desc").Limit(20).Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch payments",
			Error:   err.Error(),
		})
	}

	recent := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		var appointment models.Appointment
		if err := db.DB.Preload("Patient.User").Preload("Doctor.User").
			First(&appointment, payments[i].AppointmentID).Error; err != nil {
			continue
		}
		recent = append(recent, newPaymentResponse(&payments[i], &appointment))
	}

	average := 0.0
	if count > 0 {
		average = total / float64(count)
	}
	return c.JSON(RevenueResponse{
		TotalRevenue:           total,
		TotalCompletedPayments: count,
		AverageConsultationFee: average,
		RecentPayments:         recent,
	})
}
