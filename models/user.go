package models

import (
	"time"
)

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

type User struct {
	ID                       uint       `json:"id" gorm:"primaryKey"`
	FirstName                string     `json:"first_name"`
	LastName                 string     `json:"last_name"`
	Email                    string     `json:"email" gorm:"unique"`
	Password                 string     `json:"password,omitempty"`
	Phone                    string     `json:"phone"`
	Role                     Role       `json:"role"`
	IsPasswordSet            bool       `json:"is_password_set"`
	PasswordResetToken       string     `json:"-"`
	PasswordResetTokenExpiry *time.Time `json:"-"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// FullName is the display name used in notifications and emails.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
