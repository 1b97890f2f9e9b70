package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type Payment struct {
	ID                uint          `json:"id" gorm:"primaryKey"`
	AppointmentID     uint          `json:"appointment_id" gorm:"not null;uniqueIndex"`
	Amount            float64       `json:"amount" gorm:"not null"`
	RazorpayOrderID   string        `json:"razorpay_order_id" gorm:"not null"`
	RazorpayPaymentID string        `json:"razorpay_payment_id"`
	RazorpaySignature string        `json:"-"`
	Status            PaymentStatus `json:"status" gorm:"not null"`
	FailureReason     string        `json:"failure_reason,omitempty" gorm:"size:500"`
	PaidAt            *time.Time    `json:"paid_at"`
	CreatedAt         time.Time     `json:"created_at"`
}
