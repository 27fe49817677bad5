package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mamansante/mamansante-be/internal/db"
	"github.com/mamansante/mamansante-be/internal/export"
)

// ExportHandler serves conversation transcript downloads
type ExportHandler struct {
	db *db.DB
}

// NewExportHandler creates a new export handler
func NewExportHandler(database *db.DB) *ExportHandler {
	return &ExportHandler{db: database}
}

// ExportChat downloads a conversation as a text file. Unusable ids send
// the browser back to the history page instead of erroring.
func (h *ExportHandler) ExportChat(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	id := c.Param("id")

	format := c.DefaultQuery("format", "txt")
	if format == "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "L'export PDF n'est pas disponible"})
		return
	}
	if format != "txt" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format d'export inconnu"})
		return
	}

	if _, err := uuid.Parse(id); err != nil {
		c.Redirect(http.StatusFound, "/get_history")
		return
	}

	conv, err := h.db.GetConversation(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to load conversation for export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de l'export"})
		return
	}
	if conv == nil || conv.UserID != userID {
		c.Redirect(http.StatusFound, "/get_history")
		return
	}

	turns, err := h.db.GetTurns(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to load turns for export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de l'export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(conv)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.Transcript(conv, turns)))
}
