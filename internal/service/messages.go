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

// CreateMessage appends a chat message to the user's log
func (s *Service) CreateMessage(ctx context.Context, userID string, role models.MessageRole, content string) (*models.Message, error) {
	if role != models.RoleUser && role != models.RoleAssistant {
		return nil, apperr.New(apperr.KindInvalidArgument, "role must be user or assistant")
	}
	if content == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "content is required")
	}

	now := time.Now().UTC()
	message := &models.Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		Timestamp: now,
		CreatedAt: now,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns a page of the user's messages in chronological order
func (s *Service) ListMessages(ctx context.Context, userID string, skip, limit int) ([]models.Message, int, error) {
	skip, limit = clampPage(skip, limit)
	return s.repo.ListMessages(ctx, userID, skip, limit)
}

// DeleteMessage removes a single message owned by the user
func (s *Service) DeleteMessage(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteMessage(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "message not found")
		}
		return err
	}
	return nil
}

// ClearMessages removes the user's entire message log
func (s *Service) ClearMessages(ctx context.Context, userID string) error {
	return s.repo.ClearMessages(ctx, userID)
}
