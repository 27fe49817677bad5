package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamansante/mamansante-be/internal/db"
	"github.com/mamansante/mamansante-be/internal/validate"
)

// ContactHandler forwards user messages to the human advisor
type ContactHandler struct {
	db           *db.DB
	sms          SMSSender // nil disables the advisor text
	advisorPhone string
}

// NewContactHandler creates a new contact handler
func NewContactHandler(database *db.DB, sms SMSSender, advisorPhone string) *ContactHandler {
	return &ContactHandler{db: database, sms: sms, advisorPhone: advisorPhone}
}

// ContactRequest represents a contact-advisor request
type ContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// ContactAdvisor stores the request and texts the advisor. A delivery
// failure downgrades the reply, it does not fail the operation.
func (h *ContactHandler) ContactAdvisor(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tous les champs sont requis"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.PhoneNumber == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tous les champs sont requis"})
		return
	}

	if !validate.Email(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse email invalide"})
		return
	}
	phone := validate.NormalizePhone(req.PhoneNumber)
	if !validate.Phone(phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Numéro de téléphone invalide"})
		return
	}

	contact := &db.ContactRequest{
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   phone,
		Message: req.Message,
	}
	if err := h.db.CreateContactRequest(c.Request.Context(), contact); err != nil {
		log.Printf("Failed to store contact request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de l'envoi de la demande"})
		return
	}

	message := "Votre demande a été transmise à notre conseillère. Elle vous contactera rapidement."
	if err := h.notifyAdvisor(c.Request.Context(), contact); err != nil {
		log.Printf("Failed to notify advisor: %v", err)
		message = "Votre demande a été enregistrée, mais la notification de la conseillère a échoué."
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *ContactHandler) notifyAdvisor(ctx context.Context, contact *db.ContactRequest) error {
	if h.sms == nil {
		return fmt.Errorf("sms delivery is not configured")
	}
	body := fmt.Sprintf("Nouvelle demande de %s (%s, %s) : %s",
		contact.Name, contact.Phone, contact.Email, contact.Message)
	return h.sms.SendSMS(ctx, h.advisorPhone, body)
}
