// Package ws exposes the chat engine over WebSocket.
package ws

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mamansante/mamansante-be/internal/api"
	"github.com/mamansante/mamansante-be/internal/api/middleware"
	"github.com/mamansante/mamansante-be/internal/chat"
	"github.com/mamansante/mamansante-be/internal/db"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

const messagesPerMinute = 30

// ChatHandler handles WebSocket chat connections
type ChatHandler struct {
	engine    api.EngineInterface
	db        *db.DB
	jwtSecret string
}

// NewChatHandler creates a new WebSocket chat handler
func NewChatHandler(engine api.EngineInterface, database *db.DB, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		engine:    engine,
		db:        database,
		jwtSecret: jwtSecret,
	}
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Content string `json:"content"`
}

// OutgoingMessage represents a message to the client
type OutgoingMessage struct {
	Type           string `json:"type"` // "message" or "error"
	Content        string `json:"content,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// HandleChat authenticates, upgrades, and runs the read loop
func (h *ChatHandler) HandleChat(c *gin.Context) {
	// The browser WebSocket API cannot set headers, so the token may
	// also arrive as a query parameter.
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Jeton manquant"})
		return
	}

	claims, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Jeton invalide"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	userID := claims.UserID

	displayName := ""
	if user, err := h.db.GetUserByID(c.Request.Context(), userID); err == nil && user != nil {
		displayName = user.Username
	}

	log.Printf("WebSocket connected: user=%s", userID)

	limiter := middleware.NewWebSocketLimiter(messagesPerMinute)

	for {
		var msg IncomingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if !limiter.Allow() {
			h.sendError(conn, "Trop de messages. Veuillez ralentir.")
			continue
		}

		content := strings.TrimSpace(msg.Content)
		if content == "" {
			h.sendError(conn, "Message requis")
			continue
		}
		if len([]rune(content)) > 2000 {
			h.sendError(conn, "Message trop long (2000 caractères maximum)")
			continue
		}

		reply, err := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
			UserID:      userID,
			DisplayName: displayName,
			Message:     content,
		})
		if err != nil {
			log.Printf("Failed to process message: %v", err)
			h.sendError(conn, "Échec du traitement du message")
			continue
		}

		if err := h.sendReply(c.Request.Context(), conn, reply); err != nil {
			log.Printf("Failed to write reply: %v", err)
			break
		}
	}
}

func (h *ChatHandler) sendReply(_ context.Context, conn *websocket.Conn, reply *chat.Reply) error {
	return conn.WriteJSON(OutgoingMessage{
		Type:           "message",
		Content:        reply.Message,
		ConversationID: reply.ConversationID,
	})
}

func (h *ChatHandler) sendError(conn *websocket.Conn, message string) error {
	return conn.WriteJSON(OutgoingMessage{
		Type:    "error",
		Content: message,
	})
}
