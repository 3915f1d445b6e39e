package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/models"
	"github.com/vantrack/vantrack-api/internal/repository"
)

// CreateTransactionInput carries the fields accepted when recording a transaction
type CreateTransactionInput struct {
	Date                *time.Time
	DueDate             *time.Time
	Amount              decimal.Decimal
	Description         string
	Category            string
	Type                models.TransactionType
	Account             models.AccountType
	ContactName         string
	ContactID           *string
	LinkedTransactionID *string
}

// UpdateTransactionInput carries the patchable fields; nil means unchanged
type UpdateTransactionInput struct {
	Date        *time.Time
	DueDate     *time.Time
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Account     *models.AccountType
}

// CreateTransaction records a transaction for the user. Contact names are
// resolved to existing contacts case-insensitively, creating the contact when
// none matches. Debt-typed transactions start as open debts; payment-typed
// transactions are applied FIFO against the contact's open debts.
func (s *Service) CreateTransaction(ctx context.Context, userID string, input CreateTransactionInput) (*models.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.New(apperr.KindInvalidArgument, "amount must be positive")
	}
	if input.Description == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "description is required")
	}
	if !models.ValidTransactionType(input.Type) {
		return nil, apperr.New(apperr.KindInvalidArgument, "unknown transaction type")
	}
	if input.Account == "" {
		input.Account = models.AccountCash
	}
	if input.Account != models.AccountCash && input.Account != models.AccountBank {
		return nil, apperr.New(apperr.KindInvalidArgument, "account must be cash or bank")
	}

	contactID, contactName, err := s.resolveContact(ctx, userID, input.ContactID, input.ContactName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}

	t := &models.Transaction{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Date:                date,
		DueDate:             input.DueDate,
		Amount:              input.Amount,
		Description:         input.Description,
		Category:            input.Category,
		Type:                input.Type,
		Account:             input.Account,
		ContactName:         contactName,
		ContactID:           contactID,
		LinkedTransactionID: input.LinkedTransactionID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	switch {
	case models.IsDebtType(input.Type):
		status := models.DebtOpen
		remaining := input.Amount
		t.Status = &status
		t.RemainingAmount = &remaining
		if err := s.repo.CreateTransaction(ctx, t); err != nil {
			return nil, err
		}
	case models.IsPaymentType(input.Type):
		created, err := s.repo.ApplyPayment(ctx, t)
		if err != nil {
			return nil, err
		}
		t = &created[0]
	default:
		if err := s.repo.CreateTransaction(ctx, t); err != nil {
			return nil, err
		}
	}

	s.log.Infof("Transaction created for user %s: %s %s", userID, t.Type, t.Amount)
	return t, nil
}

// resolveContact maps an explicit contact id or a free-text contact name to a
// stored contact, auto-creating by name when no match exists.
func (s *Service) resolveContact(ctx context.Context, userID string, contactID *string, contactName string) (*string, string, error) {
	if contactID != nil {
		contact, err := s.repo.FindContactByID(ctx, userID, *contactID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, "", apperr.New(apperr.KindNotFound, "contact not found")
			}
			return nil, "", err
		}
		return &contact.ID, contact.Name, nil
	}
	if contactName == "" {
		return nil, "", nil
	}

	contact, err := s.repo.FindContactByName(ctx, userID, contactName)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}
	if contact == nil {
		now := time.Now().UTC()
		contact = &models.Contact{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      contactName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.CreateContact(ctx, contact); err != nil {
			return nil, "", err
		}
		s.log.Infof("Contact auto-created for user %s: %s", userID, contact.Name)
	}
	return &contact.ID, contact.Name, nil
}

// GetTransaction returns a transaction owned by the user
func (s *Service) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	t, err := s.repo.FindTransactionByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "transaction not found")
		}
		return nil, err
	}
	return t, nil
}

// ListTransactions returns a page of the user's transactions plus the total count
func (s *Service) ListTransactions(ctx context.Context, userID, typeFilter string, skip, limit int) ([]models.Transaction, int, error) {
	skip, limit = clampPage(skip, limit)
	return s.repo.ListTransactions(ctx, userID, typeFilter, skip, limit)
}

// UpdateTransaction applies a partial update to a transaction owned by the user
func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, input UpdateTransactionInput) (*models.Transaction, error) {
	t, err := s.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		t.Date = input.Date.UTC()
	}
	if input.DueDate != nil {
		t.DueDate = input.DueDate
	}
	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperr.New(apperr.KindInvalidArgument, "amount must be positive")
		}
		t.Amount = *input.Amount
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Category != nil {
		t.Category = *input.Category
	}
	if input.Account != nil {
		if *input.Account != models.AccountCash && *input.Account != models.AccountBank {
			return nil, apperr.New(apperr.KindInvalidArgument, "account must be cash or bank")
		}
		t.Account = *input.Account
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "transaction not found")
		}
		return nil, err
	}
	return t, nil
}

// DeleteTransaction removes a transaction owned by the user
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "transaction not found")
		}
		return err
	}
	return nil
}

// ListDebtPayments returns the payments applied to a specific debt transaction
func (s *Service) ListDebtPayments(ctx context.Context, userID, debtID string) ([]models.Transaction, error) {
	if _, err := s.GetTransaction(ctx, userID, debtID); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsForDebt(ctx, userID, debtID)
}

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return skip, limit
}
