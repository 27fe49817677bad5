package chat

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/mamansante/mamansante-be/internal/circuitbreaker"
	"github.com/mamansante/mamansante-be/internal/db"
	"github.com/mamansante/mamansante-be/internal/extractor"
	"github.com/mamansante/mamansante-be/internal/privacy"
	"github.com/mamansante/mamansante-be/internal/prompt"
	"github.com/mamansante/mamansante-be/internal/session"
	"github.com/mamansante/mamansante-be/pkg/llm"
)

const defaultTitle = "Nouvelle conversation"

var titleTokenRE = regexp.MustCompile(`[\p{L}\p{N}_']+`)

// ProcessRequest contains all data needed to answer one user message
type ProcessRequest struct {
	UserID      string
	DisplayName string
	Message     string
}

// Reply is the outcome of processing a message
type Reply struct {
	Message        string
	ConversationID string
}

// Interfaces for dependencies
type MatcherInterface interface {
	Respond(message string, data extractor.UserData) string
}

type PromptInterface interface {
	BuildPrompt(history []prompt.Turn, userMessage string) []llm.ChatMessage
}

type DBInterface interface {
	CreateConversation(ctx context.Context, userID, title string) (*db.Conversation, error)
	GetConversation(ctx context.Context, id string) (*db.Conversation, error)
	AppendTurn(ctx context.Context, conversationID, speaker, text string) (*db.Turn, error)
	GetRecentTurns(ctx context.Context, conversationID string, limit int) ([]db.Turn, error)
}

// Engine handles core conversation logic independent of transport
type Engine struct {
	matcher        MatcherInterface
	promptBuilder  PromptInterface
	llmClient      llm.Client // nil disables the external model
	db             DBInterface
	sessions       *session.Manager
	circuitBreaker *circuitbreaker.CircuitBreaker
	aiTimeout      time.Duration
}

// NewEngine creates a new transport-agnostic chat engine. A nil llm
// client disables the external model and every reply comes from the
// rule cascade.
func NewEngine(matcher MatcherInterface, pb PromptInterface, client llm.Client, database DBInterface) *Engine {
	return &Engine{
		matcher:        matcher,
		promptBuilder:  pb,
		llmClient:      client,
		db:             database,
		sessions:       session.NewManager(),
		circuitBreaker: circuitbreaker.NewCircuitBreaker(5, 5*time.Minute),
		aiTimeout:      30 * time.Second,
	}
}

// ProcessMessage answers one user message and records both sides of the
// exchange in the user's active conversation, creating one when needed.
func (e *Engine) ProcessMessage(ctx context.Context, req ProcessRequest) (*Reply, error) {
	unlock := e.sessions.Lock(req.UserID)
	defer unlock()

	log.Printf("Processing message: userID=%s, length=%d", req.UserID, len(req.Message))

	if privacy.ContainsPII(req.Message) {
		log.Printf("Warning: potential PII in message from user=%s", req.UserID)
	}

	data := extractor.Extract(req.Message)

	conversationID, err := e.resolveConversation(ctx, req)
	if err != nil {
		return nil, err
	}

	answer := e.answerWithModel(ctx, conversationID, req.Message)
	if answer == "" {
		answer = e.matcher.Respond(req.Message, data)
	}

	speaker := req.DisplayName
	if speaker == "" {
		speaker = "Vous"
	}
	if _, err := e.db.AppendTurn(ctx, conversationID, speaker, req.Message); err != nil {
		return nil, fmt.Errorf("failed to save user turn: %w", err)
	}
	if _, err := e.db.AppendTurn(ctx, conversationID, prompt.BotSpeakerLabel, answer); err != nil {
		return nil, fmt.Errorf("failed to save bot turn: %w", err)
	}

	return &Reply{Message: answer, ConversationID: conversationID}, nil
}

// ResetSession drops the user's active-conversation pointer so the next
// message starts a fresh conversation.
func (e *Engine) ResetSession(userID string) {
	unlock := e.sessions.Lock(userID)
	defer unlock()
	e.sessions.Clear(userID)
}

// resolveConversation returns the user's active conversation, creating a
// new one when the pointer is unset, stale, or belongs to someone else.
func (e *Engine) resolveConversation(ctx context.Context, req ProcessRequest) (string, error) {
	if id := e.sessions.ActiveConversation(req.UserID); id != "" {
		conv, err := e.db.GetConversation(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to load conversation: %w", err)
		}
		if conv != nil && conv.UserID == req.UserID {
			return conv.ID, nil
		}
		log.Printf("Active conversation %s no longer usable for user=%s, starting over", id, req.UserID)
	}

	conv, err := e.db.CreateConversation(ctx, req.UserID, deriveTitle(req.Message))
	if err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}
	e.sessions.SetActiveConversation(req.UserID, conv.ID)
	log.Printf("Created new conversation: %s", conv.ID)
	return conv.ID, nil
}

// answerWithModel asks the external model, returning "" on any failure
// so the caller falls back to the rule cascade.
func (e *Engine) answerWithModel(ctx context.Context, conversationID, message string) string {
	if e.llmClient == nil {
		return ""
	}
	if e.circuitBreaker.State() == circuitbreaker.StateOpen {
		log.Printf("Circuit breaker open, skipping external model")
		return ""
	}

	history, err := e.db.GetRecentTurns(ctx, conversationID, prompt.HistoryDepth)
	if err != nil {
		log.Printf("Failed to load history, continuing without it: %v", err)
		history = nil
	}

	turns := make([]prompt.Turn, len(history))
	for i, t := range history {
		turns[i] = prompt.Turn{Speaker: t.Speaker, Text: t.Text}
	}

	messages := e.promptBuilder.BuildPrompt(turns, privacy.SanitizeForAPI(message))

	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	var answer string
	err = e.circuitBreaker.Call(func() error {
		response, err := e.llmClient.ChatCompletion(ctxWithTimeout, llm.ChatRequest{
			Messages:    messages,
			Temperature: 0.7,
		})
		if err != nil {
			return err
		}
		if len(response.Choices) == 0 {
			return fmt.Errorf("no response from model")
		}
		answer = strings.TrimSpace(response.Choices[0].Message.Content)
		if answer == "" {
			return fmt.Errorf("empty response from model")
		}
		return nil
	})
	if err != nil {
		log.Printf("External model call failed, falling back to rules: %v", err)
		return ""
	}
	return answer
}

// deriveTitle builds a conversation title from the first words of the
// opening message.
func deriveTitle(message string) string {
	tokens := titleTokenRE.FindAllString(message, 5)
	if len(tokens) == 0 {
		return defaultTitle
	}
	return strings.Join(tokens, " ")
}
