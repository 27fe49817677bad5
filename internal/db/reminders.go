package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreateReminder inserts a new appointment reminder
func (db *DB) CreateReminder(ctx context.Context, reminder *Reminder) error {
	query := `
		INSERT INTO reminders (user_id, name, type, phone, appointment_date, remind_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	row := db.QueryRowContext(ctx, query,
		reminder.UserID, reminder.Name, reminder.Type, reminder.Phone,
		reminder.AppointmentDate, reminder.RemindAt)
	if err := row.Scan(&reminder.ID, &reminder.CreatedAt); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	return nil
}

// GetUserReminders retrieves all reminders for a user, soonest first
func (db *DB) GetUserReminders(ctx context.Context, userID string) ([]Reminder, error) {
	query := `
		SELECT id, user_id, name, type, phone, appointment_date, remind_at, sent, created_at
		FROM reminders
		WHERE user_id = $1
		ORDER BY remind_at ASC
	`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// GetDueReminders retrieves unsent reminders whose time has passed
func (db *DB) GetDueReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	query := `
		SELECT id, user_id, name, type, phone, appointment_date, remind_at, sent, created_at
		FROM reminders
		WHERE sent = FALSE AND remind_at <= $1
		ORDER BY remind_at ASC
	`

	rows, err := db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// MarkReminderSent flags a reminder as dispatched
func (db *DB) MarkReminderSent(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `UPDATE reminders SET sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
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

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Type, &r.Phone,
			&r.AppointmentDate, &r.RemindAt, &r.Sent, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
