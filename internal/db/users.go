package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const userColumns = `id, username, email, password_hash, confirmed, is_admin, confirm_token, reset_token, reset_expires_at, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Confirmed,
		&u.IsAdmin, &u.ConfirmToken, &u.ResetToken, &u.ResetExpiresAt, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new unconfirmed account
func (db *DB) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, email, password_hash, confirmed, is_admin, confirm_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	row := db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Confirmed, user.IsAdmin, user.ConfirmToken)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by email, nil when absent
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.QueryRowContext(ctx, query, email))
}

// GetUserByUsername retrieves a user by username, nil when absent
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(db.QueryRowContext(ctx, query, username))
}

// GetUserByID retrieves a user by id, nil when absent
func (db *DB) GetUserByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.QueryRowContext(ctx, query, id))
}

// GetUserByConfirmToken retrieves the user holding a confirmation token
func (db *DB) GetUserByConfirmToken(ctx context.Context, token string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE confirm_token = $1`
	return scanUser(db.QueryRowContext(ctx, query, token))
}

// ConfirmUser marks the account confirmed and burns the token
func (db *DB) ConfirmUser(ctx context.Context, id string) error {
	query := `UPDATE users SET confirmed = TRUE, confirm_token = NULL WHERE id = $1`

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetResetToken stores a password-reset token with its expiry
func (db *DB) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_token = $2, reset_expires_at = $3 WHERE id = $1`

	if _, err := db.ExecContext(ctx, query, userID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return nil
}

// GetUserByResetToken retrieves the user holding an unexpired reset token
func (db *DB) GetUserByResetToken(ctx context.Context, token string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 AND reset_expires_at > NOW()`
	return scanUser(db.QueryRowContext(ctx, query, token))
}

// UpdatePassword replaces the password hash and burns any reset token
func (db *DB) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, reset_token = NULL, reset_expires_at = NULL WHERE id = $1`

	if _, err := db.ExecContext(ctx, query, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
