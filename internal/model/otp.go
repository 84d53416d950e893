package model

import "time"

const (
	OTPPurposeLogin        = "login"
	OTPPurposeRegistration = "registration"
	OTPPurposeVerification = "verification"
)

// OTP is a one-time code sent to a phone number
type OTP struct {
	ID          string
	UserID      *string
	PhoneNumber string
	Code        string
	Purpose     string
	IsUsed      bool
	CreatedAt   time.Time
	ExpiresAt   time.Time
	VerifiedAt  *time.Time
}

// IsValid reports whether the code is unused and not yet expired at now
func (o *OTP) IsValid(now time.Time) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt)
}
