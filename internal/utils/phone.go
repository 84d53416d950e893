package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

// NormalizePhone drops everything except digits and a leading plus sign
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone reports whether phone is a plausible international number
// once normalized
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}
