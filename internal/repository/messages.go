package repository

import (
	"context"
	"fmt"

	"github.com/vantrack/vantrack-api/internal/models"
)

// CreateMessage creates a new message in the database
func (r *Repository) CreateMessage(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, user_id, role, content, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.UserID, string(m.Role), m.Content, m.Timestamp, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages returns the user's messages in chronological order plus the total count
func (r *Repository) ListMessages(ctx context.Context, userID string, skip, limit int) ([]models.Message, int, error) {
	query := `
		SELECT id, user_id, role, content, timestamp, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY timestamp, id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.Timestamp, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return messages, total, nil
}

// DeleteMessage removes a single message owned by the given user
func (r *Repository) DeleteMessage(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearMessages removes all of the user's messages
func (r *Repository) ClearMessages(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
