package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vantrack/vantrack-api/internal/models"
)

const contactColumns = `id, user_id, name, phone, email, note, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Email, &c.Note, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateContact creates a new contact in the database
func (r *Repository) CreateContact(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (id, user_id, name, phone, email, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		contact.ID, contact.UserID, contact.Name, contact.Phone, contact.Email,
		contact.Note, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// FindContactByID retrieves a contact owned by the given user
func (r *Repository) FindContactByID(ctx context.Context, userID, id string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 AND id = $2`
	c, err := scanContact(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return c, nil
}

// FindContactByName retrieves a contact by name, case-insensitively.
// Returns ErrNotFound when no contact matches.
func (r *Repository) FindContactByName(ctx context.Context, userID, name string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 AND LOWER(name) = LOWER($2)`
	c, err := scanContact(r.db.QueryRowContext(ctx, query, userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return c, nil
}

// ListContacts returns the user's contacts ordered by name plus the total count.
// A non-empty search filters by case-insensitive substring match on name.
func (r *Repository) ListContacts(ctx context.Context, userID, search string, skip, limit int) ([]models.Contact, int, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if search != "" {
		query := `SELECT ` + contactColumns + ` FROM contacts
			WHERE user_id = $1 AND LOWER(name) LIKE LOWER($2)
			ORDER BY name, id LIMIT $3 OFFSET $4`
		rows, err = r.db.QueryContext(ctx, query, userID, "%"+search+"%", limit, skip)
	} else {
		query := `SELECT ` + contactColumns + ` FROM contacts
			WHERE user_id = $1
			ORDER BY name, id LIMIT $2 OFFSET $3`
		rows, err = r.db.QueryContext(ctx, query, userID, limit, skip)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}

	var total int
	if search != "" {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM contacts WHERE user_id = $1 AND LOWER(name) LIKE LOWER($2)`,
			userID, "%"+search+"%").Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM contacts WHERE user_id = $1`, userID).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return contacts, total, nil
}

// ListAllContacts returns every contact of the user, unpaged
func (r *Repository) ListAllContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// UpdateContact persists changes to an existing contact
func (r *Repository) UpdateContact(ctx context.Context, contact *models.Contact) error {
	query := `
		UPDATE contacts SET name = $1, phone = $2, email = $3, note = $4, updated_at = $5
		WHERE user_id = $6 AND id = $7`
	res, err := r.db.ExecContext(ctx, query,
		contact.Name, contact.Phone, contact.Email, contact.Note, contact.UpdatedAt,
		contact.UserID, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact unless transactions still reference it.
// The reference check and the delete run in a single database transaction so
// a concurrent insert cannot slip between them.
func (r *Repository) DeleteContact(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND contact_id = $2`,
		userID, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to count contact references: %w", err)
	}
	if refs > 0 {
		return ErrContactInUse
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM contacts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contact delete: %w", err)
	}
	return nil
}
