package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// UserData holds the attributes pulled out of a single message.
// Fields are optional: Name is empty and Weeks is nil when nothing matched.
// It is derived fresh per message and never persisted.
type UserData struct {
	Name  string
	Weeks *int
}

// ---------- package-level compiled regexes ----------

var (
	// Self-introduction phrases. The capture is a single word starting
	// with a letter; casing is normalized afterwards.
	nameRE = regexp.MustCompile(`(?i)(?:je\s+m['’ ]appelle|mon\s+nom\s+est|moi\s+c['’]est)\s+([\p{L}][\p{L}'’-]*)`)

	// Pregnancy-week phrases with explicit pregnancy context, checked
	// before the bare fallback so "enceinte de 20 semaines" wins over
	// any other number in the message.
	weeksContextREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)enceinte\s+de\s+(\d+)\s*(?:semaines?|sa)\b`),
		regexp.MustCompile(`(?i)(\d+)\s*semaines?\s+de\s+grossesse`),
		regexp.MustCompile(`(?i)(\d+)\s*semaines?\s+d['’]am[ée]norrh[ée]e`),
	}

	// Bare "<digits> semaine" fallback, first occurrence anywhere.
	weeksFallbackRE = regexp.MustCompile(`(?i)(\d+)\s*semaine`)
)

// Extract pulls a person name and a weeks-of-pregnancy count out of a raw
// message. It never fails: fields that cannot be extracted or parsed are
// simply absent from the result.
func Extract(message string) UserData {
	var data UserData

	if m := nameRE.FindStringSubmatch(message); m != nil {
		data.Name = normalizeName(m[1])
	}

	if weeks, ok := extractWeeks(message); ok {
		data.Weeks = &weeks
	}

	return data
}

func extractWeeks(message string) (int, bool) {
	for _, re := range weeksContextREs {
		if m := re.FindStringSubmatch(message); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
				return n, true
			}
			// Parse failure is swallowed: fall through to the next pattern.
		}
	}

	if m := weeksFallbackRE.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
			return n, true
		}
	}

	return 0, false
}

// normalizeName upper-cases the first rune so "fatou" and "FATOU" both
// come back as "Fatou".
func normalizeName(raw string) string {
	lower := strings.ToLower(raw)
	runes := []rune(lower)
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
