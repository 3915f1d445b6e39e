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

// CreateDraftInput carries the fields accepted when creating a draft
type CreateDraftInput struct {
	MessageID           *string
	Date                *time.Time
	Amount              decimal.Decimal
	Description         string
	Category            string
	Type                models.TransactionType
	Account             models.AccountType
	ContactName         string
	ContactID           *string
	DueDate             *time.Time
	LinkedTransactionID *string
}

// UpdateDraftInput carries the patchable fields; nil means unchanged
type UpdateDraftInput struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Type        *models.TransactionType
	Account     *models.AccountType
	ContactName *string
	DueDate     *time.Time
}

// CreateDraft stores a pending transaction candidate
func (s *Service) CreateDraft(ctx context.Context, userID string, input CreateDraftInput) (*models.Draft, error) {
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

	now := time.Now().UTC()
	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}
	draft := &models.Draft{
		ID:                  uuid.NewString(),
		UserID:              userID,
		MessageID:           input.MessageID,
		Date:                date,
		Amount:              input.Amount,
		Description:         input.Description,
		Category:            input.Category,
		Type:                input.Type,
		Account:             input.Account,
		ContactName:         input.ContactName,
		ContactID:           input.ContactID,
		DueDate:             input.DueDate,
		LinkedTransactionID: input.LinkedTransactionID,
		Status:              models.DraftPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.CreateDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// CreateDraftsBatch stores several drafts at once, as produced when the AI
// parser extracts multiple transactions from one message.
func (s *Service) CreateDraftsBatch(ctx context.Context, userID string, inputs []CreateDraftInput) ([]models.Draft, error) {
	drafts := make([]models.Draft, 0, len(inputs))
	for _, input := range inputs {
		draft, err := s.CreateDraft(ctx, userID, input)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *draft)
	}
	return drafts, nil
}

// GetDraft returns a draft owned by the user
func (s *Service) GetDraft(ctx context.Context, userID, id string) (*models.Draft, error) {
	draft, err := s.repo.FindDraftByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "draft not found")
		}
		return nil, err
	}
	return draft, nil
}

// ListDrafts returns a page of the user's drafts with the given status
func (s *Service) ListDrafts(ctx context.Context, userID string, status models.DraftStatus, skip, limit int) ([]models.Draft, int, error) {
	if status == "" {
		status = models.DraftPending
	}
	if status != models.DraftPending && status != models.DraftConfirmed && status != models.DraftDiscarded {
		return nil, 0, apperr.New(apperr.KindInvalidArgument, "unknown draft status")
	}
	skip, limit = clampPage(skip, limit)
	return s.repo.ListDrafts(ctx, userID, status, skip, limit)
}

// UpdateDraft applies a partial update to a pending draft
func (s *Service) UpdateDraft(ctx context.Context, userID, id string, input UpdateDraftInput) (*models.Draft, error) {
	draft, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		draft.Date = input.Date.UTC()
	}
	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperr.New(apperr.KindInvalidArgument, "amount must be positive")
		}
		draft.Amount = *input.Amount
	}
	if input.Description != nil {
		draft.Description = *input.Description
	}
	if input.Category != nil {
		draft.Category = *input.Category
	}
	if input.Type != nil {
		if !models.ValidTransactionType(*input.Type) {
			return nil, apperr.New(apperr.KindInvalidArgument, "unknown transaction type")
		}
		draft.Type = *input.Type
	}
	if input.Account != nil {
		draft.Account = *input.Account
	}
	if input.ContactName != nil {
		draft.ContactName = *input.ContactName
	}
	if input.DueDate != nil {
		draft.DueDate = input.DueDate
	}
	draft.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "draft not found")
		}
		return nil, err
	}
	return draft, nil
}

// DeleteDraft removes a draft owned by the user
func (s *Service) DeleteDraft(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteDraft(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "draft not found")
		}
		return err
	}
	return nil
}

// ConfirmDraft turns a pending draft into a real transaction through the
// ledger's create path and marks the draft confirmed.
func (s *Service) ConfirmDraft(ctx context.Context, userID, id string) (*models.Transaction, error) {
	draft, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftPending {
		return nil, apperr.New(apperr.KindInvalidArgument, "only pending drafts can be confirmed")
	}

	date := draft.Date
	transaction, err := s.CreateTransaction(ctx, userID, CreateTransactionInput{
		Date:                &date,
		DueDate:             draft.DueDate,
		Amount:              draft.Amount,
		Description:         draft.Description,
		Category:            draft.Category,
		Type:                draft.Type,
		Account:             draft.Account,
		ContactName:         draft.ContactName,
		ContactID:           draft.ContactID,
		LinkedTransactionID: draft.LinkedTransactionID,
	})
	if err != nil {
		return nil, err
	}

	draft.Status = models.DraftConfirmed
	draft.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, err
	}

	s.log.Infof("Draft confirmed for user %s: %s", userID, draft.ID)
	return transaction, nil
}

// DiscardDraft marks a pending draft discarded
func (s *Service) DiscardDraft(ctx context.Context, userID, id string) (*models.Draft, error) {
	draft, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftPending {
		return nil, apperr.New(apperr.KindInvalidArgument, "only pending drafts can be discarded")
	}

	draft.Status = models.DraftDiscarded
	draft.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}
