package repository

import (
	"database/sql"
	"errors"
	"fmt"
)

// Sentinel errors mapped to API error kinds by the service layer.
var (
	ErrNotFound     = errors.New("record not found")
	ErrContactInUse = errors.New("contact is referenced by transactions")
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the schema. Statements are kept portable: ids and
// timestamps are generated in Go, placeholders are ordinal, and no
// engine-specific column types are used, so the same repository runs on
// postgres in production and in-memory sqlite in tests.
func (r *Repository) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			preferred_currency TEXT NOT NULL DEFAULT 'USD',
			preferred_language TEXT NOT NULL DEFAULT 'en',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			date TIMESTAMP NOT NULL,
			due_date TIMESTAMP,
			amount NUMERIC NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			account TEXT NOT NULL,
			contact_name TEXT NOT NULL DEFAULT '',
			contact_id TEXT REFERENCES contacts(id),
			linked_transaction_id TEXT,
			remaining_amount NUMERIC,
			status TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			message_id TEXT,
			date TIMESTAMP NOT NULL,
			amount NUMERIC NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			account TEXT NOT NULL,
			contact_name TEXT NOT NULL DEFAULT '',
			contact_id TEXT,
			due_date TIMESTAMP,
			linked_transaction_id TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			amount NUMERIC NOT NULL,
			period TEXT NOT NULL DEFAULT 'monthly',
			alert_at_percent REAL NOT NULL DEFAULT 80,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_alerted_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_contact ON transactions(contact_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_user ON drafts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_budgets_user ON budgets(user_id)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
