package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vantrack/vantrack-api/internal/models"
)

const draftColumns = `id, user_id, message_id, date, amount, description, category, type, account,
	contact_name, contact_id, due_date, linked_transaction_id, status, created_at, updated_at`

func scanDraft(row interface{ Scan(...any) error }) (*models.Draft, error) {
	d := &models.Draft{}
	var (
		messageID sql.NullString
		contactID sql.NullString
		dueDate   sql.NullTime
		linkedID  sql.NullString
	)
	err := row.Scan(&d.ID, &d.UserID, &messageID, &d.Date, &d.Amount, &d.Description,
		&d.Category, &d.Type, &d.Account, &d.ContactName, &contactID, &dueDate,
		&linkedID, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if messageID.Valid {
		d.MessageID = &messageID.String
	}
	if contactID.Valid {
		d.ContactID = &contactID.String
	}
	if dueDate.Valid {
		d.DueDate = &dueDate.Time
	}
	if linkedID.Valid {
		d.LinkedTransactionID = &linkedID.String
	}
	return d, nil
}

// CreateDraft creates a new draft in the database
func (r *Repository) CreateDraft(ctx context.Context, d *models.Draft) error {
	query := `
		INSERT INTO drafts (id, user_id, message_id, date, amount, description, category, type, account,
			contact_name, contact_id, due_date, linked_transaction_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.UserID, nullableString(d.MessageID), d.Date, d.Amount, d.Description,
		d.Category, string(d.Type), string(d.Account), d.ContactName,
		nullableString(d.ContactID), nullableTime(d.DueDate),
		nullableString(d.LinkedTransactionID), string(d.Status), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

// FindDraftByID retrieves a draft owned by the given user
func (r *Repository) FindDraftByID(ctx context.Context, userID, id string) (*models.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE user_id = $1 AND id = $2`
	d, err := scanDraft(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find draft: %w", err)
	}
	return d, nil
}

// ListDrafts returns the user's drafts with the given status, newest first,
// plus the total count.
func (r *Repository) ListDrafts(ctx context.Context, userID string, status models.DraftStatus, skip, limit int) ([]models.Draft, int, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, userID, string(status), limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM drafts WHERE user_id = $1 AND status = $2`,
		userID, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count drafts: %w", err)
	}
	return drafts, total, nil
}

// UpdateDraft persists changes to an existing draft
func (r *Repository) UpdateDraft(ctx context.Context, d *models.Draft) error {
	query := `
		UPDATE drafts SET date = $1, amount = $2, description = $3, category = $4, type = $5,
			account = $6, contact_name = $7, contact_id = $8, due_date = $9,
			linked_transaction_id = $10, status = $11, updated_at = $12
		WHERE user_id = $13 AND id = $14`
	res, err := r.db.ExecContext(ctx, query,
		d.Date, d.Amount, d.Description, d.Category, string(d.Type),
		string(d.Account), d.ContactName, nullableString(d.ContactID),
		nullableTime(d.DueDate), nullableString(d.LinkedTransactionID),
		string(d.Status), d.UpdatedAt, d.UserID, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDraft removes a draft owned by the given user
func (r *Repository) DeleteDraft(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM drafts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
