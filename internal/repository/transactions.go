package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vantrack/vantrack-api/internal/models"
)

const transactionColumns = `id, user_id, date, due_date, amount, description, category, type, account,
	contact_name, contact_id, linked_transaction_id, remaining_amount, status, created_at, updated_at`

// dbtx abstracts *sql.DB and *sql.Tx for helpers shared between plain and
// transactional code paths.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	t := &models.Transaction{}
	var (
		dueDate   sql.NullTime
		contactID sql.NullString
		linkedID  sql.NullString
		remaining decimal.NullDecimal
		status    sql.NullString
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Date, &dueDate, &t.Amount, &t.Description,
		&t.Category, &t.Type, &t.Account, &t.ContactName, &contactID, &linkedID,
		&remaining, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if contactID.Valid {
		t.ContactID = &contactID.String
	}
	if linkedID.Valid {
		t.LinkedTransactionID = &linkedID.String
	}
	if remaining.Valid {
		t.RemainingAmount = &remaining.Decimal
	}
	if status.Valid {
		s := models.DebtStatus(status.String)
		t.Status = &s
	}
	return t, nil
}

func insertTransaction(ctx context.Context, db dbtx, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, date, due_date, amount, description, category, type, account,
			contact_name, contact_id, linked_transaction_id, remaining_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	var remaining any
	if t.RemainingAmount != nil {
		remaining = *t.RemainingAmount
	}
	var status any
	if t.Status != nil {
		status = string(*t.Status)
	}
	_, err := db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Date, nullableTime(t.DueDate), t.Amount, t.Description,
		t.Category, string(t.Type), string(t.Account), t.ContactName,
		nullableString(t.ContactID), nullableString(t.LinkedTransactionID),
		remaining, status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// CreateTransaction inserts a single transaction row
func (r *Repository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

// FindTransactionByID retrieves a transaction owned by the given user
func (r *Repository) FindTransactionByID(ctx context.Context, userID, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND id = $2`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the user's transactions ordered by date descending
// plus the total count. typeFilter narrows to a single transaction type.
func (r *Repository) ListTransactions(ctx context.Context, userID, typeFilter string, skip, limit int) ([]models.Transaction, int, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if typeFilter != "" {
		query := `SELECT ` + transactionColumns + ` FROM transactions
			WHERE user_id = $1 AND type = $2
			ORDER BY date DESC, id DESC LIMIT $3 OFFSET $4`
		rows, err = r.db.QueryContext(ctx, query, userID, typeFilter, limit, skip)
	} else {
		query := `SELECT ` + transactionColumns + ` FROM transactions
			WHERE user_id = $1
			ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`
		rows, err = r.db.QueryContext(ctx, query, userID, limit, skip)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if typeFilter != "" {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND type = $2`,
			userID, typeFilter).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return transactions, total, nil
}

// ListAllTransactions returns every transaction of the user, unpaged.
// Used by the balance aggregator, which needs the full set.
func (r *Repository) ListAllTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListTransactionsSince returns the user's transactions dated at or after since
func (r *Repository) ListTransactionsSince(ctx context.Context, userID string, since time.Time) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND date >= $2 ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListPaymentsForDebt returns payment transactions linked to a debt, oldest first
func (r *Repository) ListPaymentsForDebt(ctx context.Context, userID, debtID string) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND linked_transaction_id = $2 AND type IN ('payment_received', 'payment_made')
		ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, userID, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return transactions, nil
}

// UpdateTransaction persists changes to an existing transaction
func (r *Repository) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	query := `
		UPDATE transactions SET date = $1, due_date = $2, amount = $3, description = $4, category = $5,
			type = $6, account = $7, contact_name = $8, contact_id = $9, linked_transaction_id = $10,
			remaining_amount = $11, status = $12, updated_at = $13
		WHERE user_id = $14 AND id = $15`
	var remaining any
	if t.RemainingAmount != nil {
		remaining = *t.RemainingAmount
	}
	var status any
	if t.Status != nil {
		status = string(*t.Status)
	}
	res, err := r.db.ExecContext(ctx, query,
		t.Date, nullableTime(t.DueDate), t.Amount, t.Description, t.Category,
		string(t.Type), string(t.Account), t.ContactName,
		nullableString(t.ContactID), nullableString(t.LinkedTransactionID),
		remaining, status, t.UpdatedAt, t.UserID, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction owned by the given user
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyPayment records a payment transaction, applying it FIFO across the
// contact's unsettled debts of the matching kind. An explicitly linked debt is
// paid first. One payment row is created per debt reached; debts have their
// remaining_amount and status updated. Everything runs inside a single
// database transaction. When no debt can absorb the payment, the original
// payment is stored standalone.
func (r *Repository) ApplyPayment(ctx context.Context, payment *models.Transaction) ([]models.Transaction, error) {
	debtTypes := debtTypesFor(payment.Type)
	if debtTypes == nil {
		return nil, fmt.Errorf("transaction type %q is not a payment", payment.Type)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var debts []models.Transaction

	if payment.LinkedTransactionID != nil {
		query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND id = $2`
		linked, err := scanTransaction(tx.QueryRowContext(ctx, query, payment.UserID, *payment.LinkedTransactionID))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to load linked debt: %w", err)
		}
		if linked != nil {
			debts = append(debts, *linked)
		}
	}

	// FIFO: remaining open debts for the contact, oldest first.
	if payment.ContactID != nil || payment.ContactName != "" {
		var rows *sql.Rows
		if payment.ContactID != nil {
			query := `SELECT ` + transactionColumns + ` FROM transactions
				WHERE user_id = $1 AND contact_id = $2 AND type IN ($3, $4) AND status <> 'settled'
				ORDER BY date, id`
			rows, err = tx.QueryContext(ctx, query, payment.UserID, *payment.ContactID,
				string(debtTypes[0]), string(debtTypes[1]))
		} else {
			query := `SELECT ` + transactionColumns + ` FROM transactions
				WHERE user_id = $1 AND LOWER(contact_name) = LOWER($2) AND type IN ($3, $4) AND status <> 'settled'
				ORDER BY date, id`
			rows, err = tx.QueryContext(ctx, query, payment.UserID, payment.ContactName,
				string(debtTypes[0]), string(debtTypes[1]))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list open debts: %w", err)
		}
		more, err := collectTransactions(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, d := range more {
			if payment.LinkedTransactionID != nil && d.ID == *payment.LinkedTransactionID {
				continue
			}
			debts = append(debts, d)
		}
	}

	remaining := payment.Amount
	var created []models.Transaction
	now := time.Now().UTC()

	for _, debt := range debts {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		debtRemaining := debt.Amount
		if debt.RemainingAmount != nil {
			debtRemaining = *debt.RemainingAmount
		}
		if debtRemaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		apply := decimal.Min(remaining, debtRemaining)
		newRemaining := debtRemaining.Sub(apply)
		newStatus := models.DebtPartial
		if newRemaining.IsZero() {
			newStatus = models.DebtSettled
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET remaining_amount = $1, status = $2, updated_at = $3 WHERE id = $4`,
			newRemaining, string(newStatus), now, debt.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update debt: %w", err)
		}

		split := *payment
		split.ID = uuid.NewString()
		split.Amount = apply
		debtID := debt.ID
		split.LinkedTransactionID = &debtID
		split.CreatedAt = now
		split.UpdatedAt = now
		if err := insertTransaction(ctx, tx, &split); err != nil {
			return nil, err
		}
		created = append(created, split)
		remaining = remaining.Sub(apply)
	}

	if len(created) == 0 {
		if err := insertTransaction(ctx, tx, payment); err != nil {
			return nil, err
		}
		created = append(created, *payment)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return created, nil
}

func debtTypesFor(t models.TransactionType) []models.TransactionType {
	switch t {
	case models.TypePaymentReceived:
		return []models.TransactionType{models.TypeCreditReceivable, models.TypeLoanReceivable}
	case models.TypePaymentMade:
		return []models.TransactionType{models.TypeCreditPayable, models.TypeLoanPayable}
	}
	return nil
}
