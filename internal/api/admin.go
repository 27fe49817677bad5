package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamansante/mamansante-be/internal/db"
)

// AdminHandler serves the admin dashboard endpoints
type AdminHandler struct {
	db *db.DB
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(database *db.DB) *AdminHandler {
	return &AdminHandler{db: database}
}

// Stats returns global counts. Requires the admin flag.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.db.GetStats(c.Request.Context())
	if err != nil {
		log.Printf("Failed to load stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec du chargement des statistiques"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":         stats.Users,
		"conversations": stats.Conversations,
		"reminders":     stats.Reminders,
	})
}
