package privacy

import (
	"strings"
	"testing"
)

func TestRedactSensitiveData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{
			name:     "email redacted",
			input:    "écrivez-moi à fatou@example.com merci",
			contains: "[EMAIL]",
			absent:   "fatou@example.com",
		},
		{
			name:     "french phone redacted",
			input:    "mon numéro est 06 12 34 56 78",
			contains: "[TELEPHONE]",
			absent:   "06 12 34 56 78",
		},
		{
			name:     "international phone redacted",
			input:    "appelez le +226 70 12 34 56",
			contains: "[TELEPHONE]",
			absent:   "+226 70 12 34 56",
		},
		{
			name:     "credit card redacted",
			input:    "carte 4111 1111 1111 1111",
			contains: "[CARTE]",
			absent:   "4111 1111 1111 1111",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactSensitiveData(tt.input)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q in %q", tt.contains, got)
			}
			if strings.Contains(got, tt.absent) {
				t.Errorf("expected %q to be removed from %q", tt.absent, got)
			}
		})
	}
}

func TestSanitizeForAPI_PreservesWeekCounts(t *testing.T) {
	input := "je suis enceinte de 32 semaines et j'ai pris 12 kg"
	got := SanitizeForAPI(input)
	if got != input {
		t.Errorf("pregnancy numbers must survive sanitization, got %q", got)
	}
}

func TestContainsPII(t *testing.T) {
	if !ContainsPII("contact: user@example.com") {
		t.Error("email should count as PII")
	}
	if ContainsPII("j'ai des nausées à 8 semaines") {
		t.Error("week count should not count as PII")
	}
}

func TestSanitizeForLogging_Truncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := SanitizeForLogging(long)
	if len(got) != 200 {
		t.Errorf("len = %d, want 200", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated text should end with ellipsis")
	}
}
