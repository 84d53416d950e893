package screen

import (
	"errors"

	"contractor_connect/internal/gateway"
)

// Banner is the one way a failure is shown to the user
type Banner struct {
	Message string
}

// NewBanner renders err. It returns nil for a nil error.
func NewBanner(err error) *Banner {
	if err == nil {
		return nil
	}
	var fields FieldErrors
	if errors.As(err, &fields) {
		return &Banner{Message: fields.Error()}
	}
	var cooldown *CooldownError
	if errors.As(err, &cooldown) {
		return &Banner{Message: cooldown.Error()}
	}
	return &Banner{Message: gateway.ErrorMessage(err)}
}

func (b *Banner) String() string {
	if b == nil {
		return ""
	}
	return b.Message
}
