package db

import (
	"context"
	"fmt"
)

// CreateContactRequest stores a message addressed to the human advisor
func (db *DB) CreateContactRequest(ctx context.Context, cr *ContactRequest) error {
	query := `
		INSERT INTO contact_requests (user_id, name, email, phone, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	row := db.QueryRowContext(ctx, query, cr.UserID, cr.Name, cr.Email, cr.Phone, cr.Message)
	if err := row.Scan(&cr.ID, &cr.CreatedAt); err != nil {
		return fmt.Errorf("failed to create contact request: %w", err)
	}

	return nil
}
