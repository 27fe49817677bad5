package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateConversation creates a new conversation with its derived title
func (db *DB) CreateConversation(ctx context.Context, userID, title string) (*Conversation, error) {
	query := `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at, updated_at
	`

	row := db.QueryRowContext(ctx, query, userID, title)

	var c Conversation
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return &c, nil
}

// GetConversation retrieves a conversation by id, nil when absent
func (db *DB) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	row := db.QueryRowContext(ctx, query, id)

	var c Conversation
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &c, nil
}

// ListConversations retrieves a page of conversations for a user,
// newest first by last update
func (db *DB) ListConversations(ctx context.Context, userID string, limit, offset int) ([]Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}

// CountConversations counts all conversations belonging to a user
func (db *DB) CountConversations(ctx context.Context, userID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversations WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count, nil
}

// AppendTurn stores one turn and bumps the conversation's updated_at
func (db *DB) AppendTurn(ctx context.Context, conversationID, speaker, text string) (*Turn, error) {
	query := `
		INSERT INTO turns (conversation_id, speaker, content)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, speaker, content, created_at
	`

	row := db.QueryRowContext(ctx, query, conversationID, speaker, text)

	var turn Turn
	if err := row.Scan(&turn.ID, &turn.ConversationID, &turn.Speaker, &turn.Text, &turn.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id = $1`, conversationID); err != nil {
		return nil, fmt.Errorf("failed to touch conversation: %w", err)
	}

	return &turn, nil
}

// GetTurns retrieves all turns of a conversation in insertion order
func (db *DB) GetTurns(ctx context.Context, conversationID string) ([]Turn, error) {
	query := `
		SELECT id, conversation_id, speaker, content, created_at
		FROM turns
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var turn Turn
		if err := rows.Scan(&turn.ID, &turn.ConversationID, &turn.Speaker, &turn.Text, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turns: %w", err)
	}

	return turns, nil
}

// GetRecentTurns retrieves the latest turns of a conversation in
// chronological order, for seeding the external model
func (db *DB) GetRecentTurns(ctx context.Context, conversationID string, limit int) ([]Turn, error) {
	query := `
		SELECT id, conversation_id, speaker, content, created_at
		FROM (
			SELECT id, conversation_id, speaker, content, created_at
			FROM turns
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC, id ASC
	`

	rows, err := db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var turn Turn
		if err := rows.Scan(&turn.ID, &turn.ConversationID, &turn.Speaker, &turn.Text, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}
