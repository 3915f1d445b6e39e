package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/models"
	"github.com/vantrack/vantrack-api/internal/repository"
)

// CreateContactInput carries the fields accepted when creating a contact
type CreateContactInput struct {
	Name  string
	Phone string
	Email string
	Note  string
}

// UpdateContactInput carries the patchable fields; nil means unchanged
type UpdateContactInput struct {
	Name  *string
	Phone *string
	Email *string
	Note  *string
}

// CreateContact creates a contact for the user
func (s *Service) CreateContact(ctx context.Context, userID string, input CreateContactInput) (*models.Contact, error) {
	if input.Name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "name is required")
	}

	now := time.Now().UTC()
	contact := &models.Contact{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Note:      input.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// GetContact returns a contact owned by the user
func (s *Service) GetContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	contact, err := s.repo.FindContactByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "contact not found")
		}
		return nil, err
	}
	return contact, nil
}

// ListContacts returns a page of the user's contacts plus the total count
func (s *Service) ListContacts(ctx context.Context, userID, search string, skip, limit int) ([]models.Contact, int, error) {
	skip, limit = clampPage(skip, limit)
	return s.repo.ListContacts(ctx, userID, search, skip, limit)
}

// UpdateContact applies a partial update to a contact owned by the user
func (s *Service) UpdateContact(ctx context.Context, userID, id string, input UpdateContactInput) (*models.Contact, error) {
	contact, err := s.GetContact(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperr.New(apperr.KindInvalidArgument, "name cannot be empty")
		}
		contact.Name = *input.Name
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}
	if input.Email != nil {
		contact.Email = *input.Email
	}
	if input.Note != nil {
		contact.Note = *input.Note
	}
	contact.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "contact not found")
		}
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a contact unless transactions still reference it
func (s *Service) DeleteContact(ctx context.Context, userID, id string) error {
	err := s.repo.DeleteContact(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrContactInUse) {
			return apperr.New(apperr.KindContactInUse, "contact has transactions and cannot be deleted")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "contact not found")
		}
		return err
	}
	return nil
}
