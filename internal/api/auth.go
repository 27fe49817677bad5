package api

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamansante/mamansante-be/internal/api/middleware"
	"github.com/mamansante/mamansante-be/internal/db"
	"github.com/mamansante/mamansante-be/internal/validate"
	"github.com/mamansante/mamansante-be/pkg/mailer"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	db        *db.DB
	mailer    mailer.Mailer
	jwtSecret string
	baseURL   string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(database *db.DB, m mailer.Mailer, jwtSecret, baseURL string) *AuthHandler {
	return &AuthHandler{
		db:        database,
		mailer:    m,
		jwtSecret: jwtSecret,
		baseURL:   baseURL,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo represents basic user information
type UserInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
	IsAdmin   bool   `json:"is_admin"`
}

// Register handles user registration. The account starts unconfirmed and
// a confirmation link goes out by mail.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom d'utilisateur, email et mot de passe requis"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validate.Email(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse email invalide"})
		return
	}

	// Uniqueness covers unconfirmed accounts too.
	if existing, err := h.db.GetUserByEmail(c.Request.Context(), req.Email); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Cet email est déjà enregistré"})
		return
	}
	if existing, err := h.db.GetUserByUsername(c.Request.Context(), req.Username); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce nom d'utilisateur est déjà pris"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la création du compte"})
		return
	}

	confirmToken := uuid.New().String()
	user := &db.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Confirmed:    false,
		IsAdmin:      false,
		ConfirmToken: &confirmToken,
	}

	if err := h.db.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la création du compte"})
		return
	}

	link := fmt.Sprintf("%s/api/auth/confirm/%s", h.baseURL, confirmToken)
	body := fmt.Sprintf(
		"Bonjour %s,\n\nMerci de votre inscription. Veuillez confirmer votre compte en visitant ce lien :\n%s\n",
		user.Username, link)
	if err := h.mailer.Send(user.Email, "Confirmez votre compte", body); err != nil {
		log.Printf("Failed to send confirmation mail to %s: %v", user.Email, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Compte créé. Veuillez confirmer votre adresse email.",
		"user":    userToUserInfo(user),
	})
}

// Confirm validates a confirmation token and activates the account
func (h *AuthHandler) Confirm(c *gin.Context) {
	token := c.Param("token")

	user, err := h.db.GetUserByConfirmToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la confirmation"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lien de confirmation invalide ou expiré"})
		return
	}

	if err := h.db.ConfirmUser(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la confirmation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Compte confirmé. Vous pouvez maintenant vous connecter."})
}

// Login handles user login. Unconfirmed accounts are rejected.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe requis"})
		return
	}

	user, err := h.db.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	if !user.Confirmed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Veuillez confirmer votre adresse email avant de vous connecter"})
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la connexion"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  userToUserInfo(user),
	})
}

// ForgotPassword sends a password-reset link. The response never reveals
// whether the address exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis"})
		return
	}

	neutral := gin.H{"message": "Si ce compte existe, un email de réinitialisation a été envoyé."}

	user, err := h.db.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || user == nil {
		c.JSON(http.StatusOK, neutral)
		return
	}

	resetToken := uuid.New().String()
	if err := h.db.SetResetToken(c.Request.Context(), user.ID, resetToken, time.Now().Add(time.Hour)); err != nil {
		log.Printf("Failed to store reset token for %s: %v", user.ID, err)
		c.JSON(http.StatusOK, neutral)
		return
	}

	link := fmt.Sprintf("%s/reset_password?token=%s", h.baseURL, resetToken)
	body := fmt.Sprintf(
		"Bonjour %s,\n\nPour réinitialiser votre mot de passe, visitez ce lien (valable une heure) :\n%s\n",
		user.Username, link)
	if err := h.mailer.Send(user.Email, "Réinitialisation du mot de passe", body); err != nil {
		log.Printf("Failed to send reset mail to %s: %v", user.Email, err)
	}

	c.JSON(http.StatusOK, neutral)
}

// ResetPassword consumes an unexpired reset token and sets a new password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jeton et nouveau mot de passe (8 caractères minimum) requis"})
		return
	}

	user, err := h.db.GetUserByResetToken(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la réinitialisation"})
		return
	}
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jeton invalide ou expiré"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la réinitialisation"})
		return
	}

	if err := h.db.UpdatePassword(c.Request.Context(), user.ID, string(hashedPassword)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la réinitialisation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe réinitialisé. Vous pouvez vous connecter."})
}

// Me returns the current user's information
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.db.GetUserByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, userToUserInfo(user))
}

// generateToken generates a JWT token for a user
func (h *AuthHandler) generateToken(user *db.User) (string, error) {
	claims := &middleware.JWTClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour * 7)), // 7 days
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// userToUserInfo converts a db.User to UserInfo
func userToUserInfo(user *db.User) *UserInfo {
	return &UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Confirmed: user.Confirmed,
		IsAdmin:   user.IsAdmin,
	}
}
