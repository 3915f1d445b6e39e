package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vantrack/vantrack-api/internal/models"
)

const budgetColumns = `id, user_id, name, type, category, amount, period, alert_at_percent,
	is_active, last_alerted_at, created_at, updated_at`

func scanBudget(row interface{ Scan(...any) error }) (*models.Budget, error) {
	b := &models.Budget{}
	var lastAlerted sql.NullTime
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Type, &b.Category, &b.Amount,
		&b.Period, &b.AlertAtPercent, &b.IsActive, &lastAlerted, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastAlerted.Valid {
		b.LastAlertedAt = &lastAlerted.Time
	}
	return b, nil
}

// CreateBudget creates a new budget in the database
func (r *Repository) CreateBudget(ctx context.Context, b *models.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, name, type, category, amount, period, alert_at_percent,
			is_active, last_alerted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Name, string(b.Type), b.Category, b.Amount, string(b.Period),
		b.AlertAtPercent, b.IsActive, nullableTime(b.LastAlertedAt), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// FindBudgetByID retrieves a budget owned by the given user
func (r *Repository) FindBudgetByID(ctx context.Context, userID, id string) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND id = $2`
	b, err := scanBudget(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns the user's budgets, newest first
func (r *Repository) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()
	return collectBudgets(rows)
}

// ListActiveBudgets returns all active budgets across users, for the alert sweep
func (r *Repository) ListActiveBudgets(ctx context.Context) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE is_active ORDER BY user_id, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active budgets: %w", err)
	}
	defer rows.Close()
	return collectBudgets(rows)
}

func collectBudgets(rows *sql.Rows) ([]models.Budget, error) {
	var budgets []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget persists changes to an existing budget
func (r *Repository) UpdateBudget(ctx context.Context, b *models.Budget) error {
	query := `
		UPDATE budgets SET name = $1, type = $2, category = $3, amount = $4, period = $5,
			alert_at_percent = $6, is_active = $7, last_alerted_at = $8, updated_at = $9
		WHERE user_id = $10 AND id = $11`
	res, err := r.db.ExecContext(ctx, query,
		b.Name, string(b.Type), b.Category, b.Amount, string(b.Period),
		b.AlertAtPercent, b.IsActive, nullableTime(b.LastAlertedAt), b.UpdatedAt,
		b.UserID, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBudget removes a budget owned by the given user
func (r *Repository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkBudgetAlerted stamps the time a threshold alert was last sent
func (r *Repository) MarkBudgetAlerted(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET last_alerted_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark budget alerted: %w", err)
	}
	return nil
}
