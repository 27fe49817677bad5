package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Config holds database configuration
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// New creates a new database connection
func New(cfg Config) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{sqlDB}, nil
}

// NewFromURL creates a database connection from a connection URL
func NewFromURL(databaseURL string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{sqlDB}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// User represents a user account
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	Confirmed      bool
	IsAdmin        bool
	ConfirmToken   *string
	ResetToken     *string
	ResetExpiresAt *time.Time
	CreatedAt      time.Time
}

// Conversation groups the turns of one chat session
type Conversation struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Turn is one message within a conversation, immutable once stored
type Turn struct {
	ID             string
	ConversationID string
	Speaker        string
	Text           string
	CreatedAt      time.Time
}

// Reminder is an appointment reminder dispatched by SMS
type Reminder struct {
	ID              string
	UserID          string
	Name            string
	Type            string
	Phone           string
	AppointmentDate time.Time
	RemindAt        time.Time
	Sent            bool
	CreatedAt       time.Time
}

// ContactRequest is a message left for the human advisor
type ContactRequest struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// Stats are the counts shown on the admin dashboard
type Stats struct {
	Users         int
	Conversations int
	Reminders     int
}

// GetStats returns global counts for the admin dashboard
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats

	row := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM conversations),
			(SELECT COUNT(*) FROM reminders)
	`)
	if err := row.Scan(&s.Users, &s.Conversations, &s.Reminders); err != nil {
		return nil, fmt.Errorf("failed to count stats: %w", err)
	}

	return &s, nil
}
