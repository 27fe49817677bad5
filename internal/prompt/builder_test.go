package prompt

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuilder_BuildPrompt(t *testing.T) {
	b := NewBuilder()

	history := []Turn{
		{Speaker: "fatou", Text: "Bonjour"},
		{Speaker: BotSpeakerLabel, Text: "Bonjour, comment puis-je vous aider ?"},
	}

	messages := b.BuildPrompt(history, "Quels aliments éviter ?")

	if len(messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(messages))
	}

	if messages[0].Role != "system" || !strings.Contains(messages[0].Content, "santé maternelle") {
		t.Errorf("first message should be the persona, got %+v", messages[0])
	}
	if messages[1].Role != "user" {
		t.Errorf("user turn role = %q, want user", messages[1].Role)
	}
	if messages[2].Role != "assistant" {
		t.Errorf("bot turn role = %q, want assistant", messages[2].Role)
	}
	if messages[3].Role != "user" || messages[3].Content != "Quels aliments éviter ?" {
		t.Errorf("last message should be the current question, got %+v", messages[3])
	}
}

func TestBuilder_BuildPromptTruncatesHistory(t *testing.T) {
	b := NewBuilder()

	var history []Turn
	for i := 0; i < 25; i++ {
		history = append(history, Turn{Speaker: "fatou", Text: fmt.Sprintf("message %d", i)})
	}

	messages := b.BuildPrompt(history, "question")

	// persona + 10 most recent turns + current message
	if len(messages) != HistoryDepth+2 {
		t.Fatalf("got %d messages, want %d", len(messages), HistoryDepth+2)
	}
	if messages[1].Content != "message 15" {
		t.Errorf("oldest kept turn = %q, want message 15", messages[1].Content)
	}
	if messages[HistoryDepth].Content != "message 24" {
		t.Errorf("newest kept turn = %q, want message 24", messages[HistoryDepth].Content)
	}
}

func TestBuilder_BuildPromptNoHistory(t *testing.T) {
	b := NewBuilder()

	messages := b.BuildPrompt(nil, "première question")
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
}
