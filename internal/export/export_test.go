package export

import (
	"strings"
	"testing"
	"time"

	"github.com/mamansante/mamansante-be/internal/db"
)

func TestTranscript(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	conv := &db.Conversation{
		ID:        "conv-1",
		Title:     "Question sur l'allaitement",
		CreatedAt: created,
	}
	turns := []db.Turn{
		{Speaker: "Awa", Text: "Parlez-moi de l'allaitement", CreatedAt: created},
		{Speaker: "Bot", Text: "L'allaitement maternel exclusif est recommandé.", CreatedAt: created.Add(time.Second)},
	}

	got := Transcript(conv, turns)

	if !strings.HasPrefix(got, "Question sur l'allaitement\n") {
		t.Errorf("transcript does not start with the title:\n%s", got)
	}
	if !strings.Contains(got, "Conversation du 14/03/2026 09:30") {
		t.Errorf("transcript is missing the date line:\n%s", got)
	}
	if !strings.Contains(got, "Awa: Parlez-moi de l'allaitement") {
		t.Errorf("transcript is missing the user turn:\n%s", got)
	}
	if !strings.Contains(got, "Bot: L'allaitement maternel exclusif est recommandé.") {
		t.Errorf("transcript is missing the bot turn:\n%s", got)
	}
}

func TestTranscript_NoTurns(t *testing.T) {
	conv := &db.Conversation{Title: "Vide", CreatedAt: time.Now()}
	got := Transcript(conv, nil)
	if !strings.HasPrefix(got, "Vide\n") {
		t.Errorf("transcript = %q, want title header even without turns", got)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Question sur l'allaitement", "Question_sur_lallaitement.txt"},
		{"soins prénatals", "soins_prnatals.txt"},
		{"???", "conversation.txt"},
		{"", "conversation.txt"},
	}

	for _, tt := range tests {
		conv := &db.Conversation{Title: tt.title}
		if got := Filename(conv); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
