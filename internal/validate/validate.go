package validate

import (
	"regexp"
	"strings"
)

var (
	// 8 to 15 digits with an optional leading +, after spaces and
	// hyphens have been stripped.
	phoneRegex = regexp.MustCompile(`^\+?\d{8,15}$`)

	// RFC-lite email check, same permissiveness as the original service.
	emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// NormalizePhone strips spaces and hyphens from a phone number.
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	return strings.ReplaceAll(phone, "-", "")
}

// Phone reports whether the number is acceptable after normalization.
func Phone(phone string) bool {
	return phoneRegex.MatchString(NormalizePhone(phone))
}

// Email reports whether the address looks like a deliverable email.
func Email(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}
