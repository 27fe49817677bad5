package privacy

import (
	"regexp"
)

var (
	// Email pattern
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// Phone patterns: French national (0X XX XX XX XX with optional
	// separators) and international +NNNNNNNN... Both need at least 9
	// digits so week counts like "32 semaines" are never caught.
	frenchPhoneRegex = regexp.MustCompile(`\b0[1-9](?:[-.\s]?\d{2}){4}\b`)
	intlPhoneRegex   = regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{2}(?:[-.\s]?\d{2,3}){3,4}`)

	// Credit card pattern (basic) - must have 4 groups
	creditCardRegex = regexp.MustCompile(`\b\d{4}[-\s]\d{4}[-\s]\d{4}[-\s]\d{4}\b`)
)

// RedactSensitiveData removes PII from text
func RedactSensitiveData(text string) string {
	text = emailRegex.ReplaceAllString(text, "[EMAIL]")
	text = frenchPhoneRegex.ReplaceAllString(text, "[TELEPHONE]")
	text = intlPhoneRegex.ReplaceAllString(text, "[TELEPHONE]")
	text = creditCardRegex.ReplaceAllString(text, "[CARTE]")
	return text
}

// SanitizeForLogging prepares text for safe logging
func SanitizeForLogging(text string) string {
	redacted := RedactSensitiveData(text)

	if len(redacted) > 200 {
		return redacted[:197] + "..."
	}
	return redacted
}

// SanitizeForAPI removes PII before sending text to the external model.
// Pregnancy-related numbers (weeks, measurements) are preserved: the
// phone patterns require long digit runs that week counts never form.
func SanitizeForAPI(text string) string {
	return RedactSensitiveData(text)
}

// ContainsPII checks if text contains potential PII
func ContainsPII(text string) bool {
	return emailRegex.MatchString(text) ||
		frenchPhoneRegex.MatchString(text) ||
		intlPhoneRegex.MatchString(text) ||
		creditCardRegex.MatchString(text)
}
