package extractor

import (
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantName  string
		wantWeeks int
		hasWeeks  bool
	}{
		{
			name:      "name and weeks together",
			message:   "Bonjour, je m'appelle Fatou et je suis enceinte de 20 semaines",
			wantName:  "Fatou",
			wantWeeks: 20,
			hasWeeks:  true,
		},
		{
			name:     "name only",
			message:  "Mon nom est Awa",
			wantName: "Awa",
		},
		{
			name:     "lowercase name is normalized",
			message:  "je m'appelle aminata",
			wantName: "Aminata",
		},
		{
			name:      "weeks with grossesse context",
			message:   "J'ai des nausées à 8 semaines de grossesse",
			wantWeeks: 8,
			hasWeeks:  true,
		},
		{
			name:      "bare semaine fallback",
			message:   "douleurs depuis 14 semaine",
			wantWeeks: 14,
			hasWeeks:  true,
		},
		{
			name:      "bare fallback picks first occurrence",
			message:   "entre 10 semaines et 12 semaines",
			wantWeeks: 10,
			hasWeeks:  true,
		},
		{
			name:      "context pattern wins over earlier bare number",
			message:   "2 semaine de repos, mais je suis enceinte de 30 semaines",
			wantWeeks: 30,
			hasWeeks:  true,
		},
		{
			name:    "no entities yields empty mapping",
			message: "Quels sont les horaires d'ouverture ?",
		},
		{
			name:    "empty message",
			message: "",
		},
		{
			name:    "number without week token is ignored",
			message: "J'ai 3 enfants",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.message)

			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if tt.hasWeeks {
				if got.Weeks == nil {
					t.Fatalf("Weeks = nil, want %d", tt.wantWeeks)
				}
				if *got.Weeks != tt.wantWeeks {
					t.Errorf("Weeks = %d, want %d", *got.Weeks, tt.wantWeeks)
				}
			} else if got.Weeks != nil {
				t.Errorf("Weeks = %d, want nil", *got.Weeks)
			}
		})
	}
}
