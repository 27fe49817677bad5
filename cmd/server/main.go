package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mamansante/mamansante-be/internal/api"
	"github.com/mamansante/mamansante-be/internal/api/middleware"
	"github.com/mamansante/mamansante-be/internal/chat"
	"github.com/mamansante/mamansante-be/internal/config"
	"github.com/mamansante/mamansante-be/internal/db"
	"github.com/mamansante/mamansante-be/internal/dispatch"
	"github.com/mamansante/mamansante-be/internal/intent"
	"github.com/mamansante/mamansante-be/internal/prompt"
	"github.com/mamansante/mamansante-be/internal/ws"
	"github.com/mamansante/mamansante-be/pkg/gemini"
	"github.com/mamansante/mamansante-be/pkg/llm"
	"github.com/mamansante/mamansante-be/pkg/mailer"
	"github.com/mamansante/mamansante-be/pkg/twilio"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	database, err := db.NewFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Println("✅ Database connected")

	// External answer provider is optional; without it every reply
	// comes from the rule cascade.
	var llmClient llm.Client
	if cfg.GeminiAPIKey != "" {
		llmClient = gemini.NewHTTPClient(gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		log.Println("✅ Gemini client initialized")
	} else {
		log.Println("GEMINI_API_KEY not set, using rule-based answers only")
	}

	var smsClient *twilio.SMSClient
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		smsClient = twilio.NewSMSClient(twilio.SMSConfig{
			AccountSID:  cfg.TwilioAccountSID,
			AuthToken:   cfg.TwilioAuthToken,
			PhoneNumber: cfg.TwilioPhoneNumber,
		})
		log.Println("✅ Twilio SMS initialized")
	} else {
		log.Println("Twilio credentials not set, SMS delivery disabled")
	}

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Sender:   cfg.SMTPSender,
		})
		log.Println("✅ SMTP mailer initialized")
	} else {
		mail = mailer.NopMailer{}
		log.Println("SMTP_HOST not set, mail delivery disabled")
	}

	chatEngine := chat.NewEngine(
		intent.NewMatcher(),
		prompt.NewBuilder(),
		llmClient,
		database,
	)

	authHandler := api.NewAuthHandler(database, mail, cfg.JWTSecret, cfg.BaseURL)
	chatHandler := api.NewChatHandler(chatEngine, database)
	reminderHandler := api.NewReminderHandler(database, smsOrNil(smsClient))
	contactHandler := api.NewContactHandler(database, smsOrNil(smsClient), cfg.AdvisorPhoneNumber)
	exportHandler := api.NewExportHandler(database)
	adminHandler := api.NewAdminHandler(database)
	wsHandler := ws.NewChatHandler(chatEngine, database, cfg.JWTSecret)

	// Reminder dispatcher only runs when SMS delivery is possible.
	var dispatcher *dispatch.Dispatcher
	if smsClient != nil {
		dispatcher = dispatch.NewDispatcher(database, smsClient)
		if err := dispatcher.Start(); err != nil {
			log.Fatalf("Failed to start reminder dispatcher: %v", err)
		}
		defer dispatcher.Stop()
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.PerIP(100.0/60.0, 200)) // 100/min per IP

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	// Auth routes (public)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.GET("/confirm/:token", authHandler.Confirm)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot_password", authHandler.ForgotPassword)
		auth.POST("/reset_password", authHandler.ResetPassword)
		auth.GET("/me", middleware.JWTAuth(cfg.JWTSecret), authHandler.Me)
	}

	// Conversation routes (protected + per-user rate limiting)
	protected := router.Group("/")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	protected.Use(middleware.PerUser(500.0/3600.0, 100)) // 500/hour per user
	{
		protected.POST("/chat", chatHandler.Chat)
		protected.POST("/new_chat", chatHandler.NewChat)
		protected.GET("/get_history", chatHandler.GetHistory)
		protected.GET("/get_chat/:id", chatHandler.GetChat)
		protected.POST("/set_reminder", reminderHandler.SetReminder)
		protected.POST("/contact_advisor", contactHandler.ContactAdvisor)
		protected.GET("/export_chat/:id", exportHandler.ExportChat)
	}

	// Admin routes (protected + admin only)
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.JWTAuth(cfg.JWTSecret))
	adminGroup.Use(middleware.RequireAdmin())
	{
		adminGroup.GET("/stats", adminHandler.Stats)
	}

	// WebSocket chat route (protected via query param/header)
	router.GET("/ws/chat", wsHandler.HandleChat)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// smsOrNil keeps the handler's SMSSender nil when Twilio is not
// configured; a typed nil pointer would defeat the nil checks.
func smsOrNil(client *twilio.SMSClient) api.SMSSender {
	if client == nil {
		return nil
	}
	return client
}
