package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mamansante/mamansante-be/internal/db"
	"github.com/mamansante/mamansante-be/internal/intent"
	"github.com/mamansante/mamansante-be/internal/prompt"
	"github.com/mamansante/mamansante-be/pkg/llm"
)

// fakeDB keeps conversations and turns in memory for engine tests.
type fakeDB struct {
	conversations map[string]*db.Conversation
	turns         map[string][]db.Turn
	nextID        int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		conversations: make(map[string]*db.Conversation),
		turns:         make(map[string][]db.Turn),
	}
}

func (f *fakeDB) CreateConversation(_ context.Context, userID, title string) (*db.Conversation, error) {
	f.nextID++
	c := &db.Conversation{
		ID:        fmt.Sprintf("conv-%d", f.nextID),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.conversations[c.ID] = c
	return c, nil
}

func (f *fakeDB) GetConversation(_ context.Context, id string) (*db.Conversation, error) {
	return f.conversations[id], nil
}

func (f *fakeDB) AppendTurn(_ context.Context, conversationID, speaker, text string) (*db.Turn, error) {
	turn := db.Turn{
		ID:             fmt.Sprintf("turn-%d", len(f.turns[conversationID])+1),
		ConversationID: conversationID,
		Speaker:        speaker,
		Text:           text,
		CreatedAt:      time.Now(),
	}
	f.turns[conversationID] = append(f.turns[conversationID], turn)
	return &turn, nil
}

func (f *fakeDB) GetRecentTurns(_ context.Context, conversationID string, limit int) ([]db.Turn, error) {
	turns := f.turns[conversationID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

// fakeLLM returns a canned answer or an error.
type fakeLLM struct {
	answer string
	err    error
	calls  int
}

func (f *fakeLLM) ChatCompletion(_ context.Context, _ llm.ChatRequest) (*llm.ChatResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	resp := &llm.ChatResponse{
		Choices: []struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{
			{
				Message: struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				}{
					Role:    "assistant",
					Content: f.answer,
				},
			},
		},
	}
	return resp, nil
}

func newTestEngine(database DBInterface, client llm.Client) *Engine {
	return NewEngine(intent.NewMatcher(), prompt.NewBuilder(), client, database)
}

func TestProcessMessage_CreatesConversationOnFirstMessage(t *testing.T) {
	database := newFakeDB()
	engine := newTestEngine(database, nil)

	reply, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:      "user-1",
		DisplayName: "Awa",
		Message:     "Parlez-moi de l'allaitement de mon bébé s'il vous plaît",
	})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.ConversationID == "" {
		t.Fatal("reply has no conversation id")
	}
	if reply.Message == "" {
		t.Fatal("reply message is empty")
	}

	conv := database.conversations[reply.ConversationID]
	if conv == nil {
		t.Fatal("conversation was not stored")
	}
	if conv.Title != "Parlez moi de l'allaitement de" {
		t.Errorf("title = %q, want first five word tokens", conv.Title)
	}

	turns := database.turns[reply.ConversationID]
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].Speaker != "Awa" {
		t.Errorf("first speaker = %q, want Awa", turns[0].Speaker)
	}
	if turns[1].Speaker != prompt.BotSpeakerLabel {
		t.Errorf("second speaker = %q, want %q", turns[1].Speaker, prompt.BotSpeakerLabel)
	}
	if turns[1].Text != reply.Message {
		t.Error("stored bot turn does not match the reply")
	}
}

func TestProcessMessage_AppendsToActiveConversation(t *testing.T) {
	database := newFakeDB()
	engine := newTestEngine(database, nil)

	first, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Quels soins prénatals dois-je prévoir ?",
	})
	if err != nil {
		t.Fatalf("first ProcessMessage: %v", err)
	}
	second, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Et l'alimentation pendant la grossesse ?",
	})
	if err != nil {
		t.Fatalf("second ProcessMessage: %v", err)
	}

	if first.ConversationID != second.ConversationID {
		t.Errorf("second message opened a new conversation: %s vs %s",
			first.ConversationID, second.ConversationID)
	}
	if got := len(database.turns[first.ConversationID]); got != 4 {
		t.Errorf("len(turns) = %d, want 4", got)
	}
	if len(database.conversations) != 1 {
		t.Errorf("len(conversations) = %d, want 1", len(database.conversations))
	}
}

func TestProcessMessage_StalePointerStartsNewConversation(t *testing.T) {
	database := newFakeDB()
	engine := newTestEngine(database, nil)

	first, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Bonjour, parlons allaitement",
	})
	if err != nil {
		t.Fatalf("first ProcessMessage: %v", err)
	}

	// Conversation vanishes underneath the session pointer.
	delete(database.conversations, first.ConversationID)

	second, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Encore une question sur l'allaitement",
	})
	if err != nil {
		t.Fatalf("second ProcessMessage: %v", err)
	}
	if second.ConversationID == first.ConversationID {
		t.Error("stale conversation id was reused")
	}
}

func TestProcessMessage_ForeignPointerStartsNewConversation(t *testing.T) {
	database := newFakeDB()
	engine := newTestEngine(database, nil)

	first, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Question sur les soins du nouveau-né",
	})
	if err != nil {
		t.Fatalf("first ProcessMessage: %v", err)
	}

	// Ownership changes underneath the pointer; the engine must not
	// append to someone else's conversation.
	database.conversations[first.ConversationID].UserID = "user-2"

	second, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Toujours sur les soins du nouveau-né",
	})
	if err != nil {
		t.Fatalf("second ProcessMessage: %v", err)
	}
	if second.ConversationID == first.ConversationID {
		t.Error("foreign conversation id was reused")
	}
}

func TestProcessMessage_ResetSessionStartsFresh(t *testing.T) {
	database := newFakeDB()
	engine := newTestEngine(database, nil)

	first, _ := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Parlons nutrition des enfants",
	})
	engine.ResetSession("user-1")
	second, _ := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Nouvelle discussion sur les vaccins",
	})

	if first.ConversationID == second.ConversationID {
		t.Error("reset did not start a new conversation")
	}
}

func TestProcessMessage_ModelAnswerPreferred(t *testing.T) {
	database := newFakeDB()
	client := &fakeLLM{answer: "Réponse détaillée du modèle externe."}
	engine := newTestEngine(database, client)

	reply, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Parlez-moi de l'allaitement",
	})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.Message != client.answer {
		t.Errorf("reply = %q, want the model answer", reply.Message)
	}
	if client.calls != 1 {
		t.Errorf("model calls = %d, want 1", client.calls)
	}
}

func TestProcessMessage_ModelFailureFallsBackToRules(t *testing.T) {
	database := newFakeDB()
	client := &fakeLLM{err: errors.New("upstream unavailable")}
	engine := newTestEngine(database, client)

	reply, err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID: "user-1", Message: "Parlez-moi de l'allaitement",
	})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.Message == "" {
		t.Fatal("fallback reply is empty")
	}
	if !strings.Contains(reply.Message, "allaitement") {
		t.Errorf("fallback reply %q does not come from the breastfeeding rule", reply.Message)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Bonjour je voudrais des conseils nutrition", "Bonjour je voudrais des conseils"},
		{"Allaitement ?", "Allaitement"},
		{"   !!!   ", "Nouvelle conversation"},
		{"", "Nouvelle conversation"},
	}

	for _, tt := range tests {
		if got := deriveTitle(tt.message); got != tt.want {
			t.Errorf("deriveTitle(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}
