package intent

import (
	"strings"

	"github.com/mamansante/mamansante-be/internal/extractor"
)

// Bucket identifies which cascade a message was routed to.
type Bucket string

const (
	BucketPregnancyInfo   Bucket = "pregnancy_info"
	BucketPersonalization Bucket = "personalized_advice"
	BucketNone            Bucket = "none"
)

// Keyword sets are tested by plain substring search against the
// case-folded message, deliberately not word-boundary matching: "symptôme"
// matches inside "symptômes", "bébé" inside "alimentation du bébé".
// Set A is tested first and short-circuits Set B.
var (
	setA = []string{
		"symptôme",
		"alimentation",
		"nutrition",
		"aliments solides",
		"exercice",
		"dépistage",
		"accouchement",
		"prénatal",
		"postnat",
		"allaitement",
		"soins du nouveau-né",
		"signes de danger",
		"grossesse",
	}

	setB = []string{
		"trimestre",
		"âge",
		"nouveau-né",
		"bébé",
		"enfant",
	}
)

// Matcher routes a free-text message to a topic bucket and produces the
// rule-based answer for it. It never fails and always returns a non-empty
// string.
type Matcher struct{}

// NewMatcher creates a rule-based matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match returns the bucket the message falls into.
func (m *Matcher) Match(message string) Bucket {
	lowered := strings.ToLower(message)

	if containsAny(lowered, setA) {
		return BucketPregnancyInfo
	}
	if containsAny(lowered, setB) {
		return BucketPersonalization
	}
	return BucketNone
}

// Respond produces the canned answer for a message given the attributes
// already extracted from it.
func (m *Matcher) Respond(message string, data extractor.UserData) string {
	lowered := strings.ToLower(message)

	switch m.Match(message) {
	case BucketPregnancyInfo:
		return respondPregnancyInfo(lowered, data)
	case BucketPersonalization:
		return respondPersonalization(lowered, data)
	default:
		return responseClarification
	}
}

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}
