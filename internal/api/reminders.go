package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamansante/mamansante-be/internal/db"
	"github.com/mamansante/mamansante-be/internal/validate"
)

// SMSSender is the outbound SMS contract, satisfied by pkg/twilio
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// ReminderHandler handles appointment reminders
type ReminderHandler struct {
	db  *db.DB
	sms SMSSender // nil disables confirmation texts
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(database *db.DB, sms SMSSender) *ReminderHandler {
	return &ReminderHandler{db: database, sms: sms}
}

// SetReminderRequest represents a reminder creation request
type SetReminderRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Date  string `json:"date"` // 2006-01-02
	Time  string `json:"time"` // 15:04
	Phone string `json:"phone"`
}

// SetReminder stores an appointment reminder and attempts a confirmation
// SMS. A delivery failure downgrades the reply, it does not fail the
// operation.
func (h *ReminderHandler) SetReminder(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var req SetReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tous les champs sont requis"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	if req.Name == "" || req.Type == "" || req.Date == "" || req.Time == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tous les champs sont requis"})
		return
	}

	phone := validate.NormalizePhone(req.Phone)
	if !validate.Phone(phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Numéro de téléphone invalide"})
		return
	}

	appointmentDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date invalide (format attendu AAAA-MM-JJ)"})
		return
	}
	remindAt, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Heure invalide (format attendu HH:MM)"})
		return
	}

	reminder := &db.Reminder{
		UserID:          userID,
		Name:            req.Name,
		Type:            req.Type,
		Phone:           phone,
		AppointmentDate: appointmentDate,
		RemindAt:        remindAt,
	}
	if err := h.db.CreateReminder(c.Request.Context(), reminder); err != nil {
		log.Printf("Failed to create reminder: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de l'enregistrement du rappel"})
		return
	}

	message := "Rappel enregistré. Un SMS de confirmation vous a été envoyé."
	if err := h.sendConfirmation(c.Request.Context(), reminder); err != nil {
		log.Printf("Failed to send reminder confirmation SMS: %v", err)
		message = "Rappel enregistré, mais l'envoi du SMS de confirmation a échoué."
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *ReminderHandler) sendConfirmation(ctx context.Context, reminder *db.Reminder) error {
	if h.sms == nil {
		return fmt.Errorf("sms delivery is not configured")
	}
	body := fmt.Sprintf(
		"Bonjour %s, votre rappel « %s » est enregistré pour le %s. Vous recevrez un SMS le %s.",
		reminder.Name, reminder.Type,
		reminder.AppointmentDate.Format("02/01/2006"),
		reminder.RemindAt.Format("02/01/2006 à 15:04"))
	return h.sms.SendSMS(ctx, reminder.Phone, body)
}
