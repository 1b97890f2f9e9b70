package utils

import (
	"time"

	"github.com/google/uuid"
)

// SetPasswordTokenTTL is how long a doctor's one-time set-password link stays valid.
const SetPasswordTokenTTL = 24 * time.Hour

// GenerateSetPasswordToken returns a one-time token and its expiry for the
// doctor onboarding email.
func GenerateSetPasswordToken() (string, time.Time) {
	return uuid.NewString(), time.Now().Add(SetPasswordTokenTTL)
}
