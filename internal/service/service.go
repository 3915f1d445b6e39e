package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vantrack/vantrack-api/internal/config"
	"github.com/vantrack/vantrack-api/internal/integrations/gemini"
	"github.com/vantrack/vantrack-api/internal/repository"
)

// AIParser is the external AI provider boundary
type AIParser interface {
	Configured() bool
	ParseFinancialInput(ctx context.Context, req gemini.ParseRequest) (*gemini.ParseResult, error)
	WeeklySummary(ctx context.Context, transactionLines []string, currencySymbol, languageCode string) (string, error)
}

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
	ai     AIParser
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, ai AIParser) *Service {
	return &Service{repo: repo, log: log, config: cfg, ai: ai}
}
