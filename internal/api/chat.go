package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mamansante/mamansante-be/internal/chat"
	"github.com/mamansante/mamansante-be/internal/db"
)

const maxMessageRunes = 2000

// EngineInterface is the part of the chat engine the HTTP layer uses
type EngineInterface interface {
	ProcessMessage(ctx context.Context, req chat.ProcessRequest) (*chat.Reply, error)
	ResetSession(userID string)
}

// ChatHandler handles the conversation endpoints
type ChatHandler struct {
	engine EngineInterface
	db     *db.DB
}

// NewChatHandler creates a new chat handler
func NewChatHandler(engine EngineInterface, database *db.DB) *ChatHandler {
	return &ChatHandler{engine: engine, db: database}
}

// ChatRequest represents one user message
type ChatRequest struct {
	Message string `json:"message"`
}

// TurnView is one turn of a conversation as returned to clients
type TurnView struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	SentAt  string `json:"sent_at"`
}

// ConversationView is a conversation summary for history listings
type ConversationView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Chat answers one user message within the active conversation
func (h *ChatHandler) Chat(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message requis"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message requis"})
		return
	}
	if len([]rune(message)) > maxMessageRunes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message trop long (2000 caractères maximum)"})
		return
	}

	displayName := ""
	if user, err := h.db.GetUserByID(c.Request.Context(), userID); err == nil && user != nil {
		displayName = user.Username
	}

	reply, err := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
		UserID:      userID,
		DisplayName: displayName,
		Message:     message,
	})
	if err != nil {
		log.Printf("Failed to process message for user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec du traitement du message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         reply.Message,
		"conversation_id": reply.ConversationID,
	})
}

// NewChat clears the active-conversation pointer so the next message
// starts a fresh conversation
func (h *ChatHandler) NewChat(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	h.engine.ResetSession(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Nouvelle conversation démarrée"})
}

// GetHistory lists the user's conversations, newest first
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	page := parsePositiveInt(c.Query("page"), 1)
	perPage := clampPerPage(parsePositiveInt(c.Query("per_page"), 10))

	total, err := h.db.CountConversations(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Failed to count conversations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec du chargement de l'historique"})
		return
	}

	conversations, err := h.db.ListConversations(c.Request.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		log.Printf("Failed to list conversations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec du chargement de l'historique"})
		return
	}

	history := make([]ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		history = append(history, conversationToView(conv))
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"history":     history,
		"page":        page,
		"total_pages": totalPages,
	})
}

// GetChat returns one conversation with all of its turns
func (h *ChatHandler) GetChat(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	id := c.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de conversation invalide"})
		return
	}

	conv, err := h.db.GetConversation(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to get conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec du chargement de la conversation"})
		return
	}
	if conv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation introuvable"})
		return
	}
	if conv.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	turns, err := h.db.GetTurns(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to get turns: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec du chargement de la conversation"})
		return
	}

	views := make([]TurnView, 0, len(turns))
	for _, turn := range turns {
		views = append(views, TurnView{
			Speaker: turn.Speaker,
			Text:    turn.Text,
			SentAt:  turn.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	view := conversationToView(*conv)
	c.JSON(http.StatusOK, gin.H{
		"id":         view.ID,
		"title":      view.Title,
		"created_at": view.CreatedAt,
		"updated_at": view.UpdatedAt,
		"turns":      views,
	})
}

func conversationToView(conv db.Conversation) ConversationView {
	return ConversationView{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt.Format("2006-01-02 15:04"),
		UpdatedAt: conv.UpdatedAt.Format("2006-01-02 15:04"),
	}
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func clampPerPage(perPage int) int {
	if perPage > 50 {
		return 50
	}
	return perPage
}
