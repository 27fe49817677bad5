// Package export renders conversation transcripts for download.
package export

import (
	"fmt"
	"strings"

	"github.com/mamansante/mamansante-be/internal/db"
)

// Transcript renders a conversation as plain text, one line per turn.
func Transcript(conv *db.Conversation, turns []db.Turn) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", conv.Title)
	fmt.Fprintf(&b, "Conversation du %s\n\n", conv.CreatedAt.Format("02/01/2006 15:04"))

	for _, turn := range turns {
		fmt.Fprintf(&b, "[%s] %s: %s\n", turn.CreatedAt.Format("02/01/2006 15:04"), turn.Speaker, turn.Text)
	}

	return b.String()
}

// Filename derives a safe attachment name from the conversation title.
func Filename(conv *db.Conversation) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, conv.Title)
	if name == "" {
		name = "conversation"
	}
	return name + ".txt"
}
