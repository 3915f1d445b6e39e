package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/integrations/gemini"
)

// ParseInput forwards free text to the AI provider and relays its structured
// result verbatim. A single attempt with a bounded timeout; any provider
// failure surfaces as UpstreamUnavailable.
func (s *Service) ParseInput(ctx context.Context, userID string, req gemini.ParseRequest) (*gemini.ParseResult, error) {
	if req.InputText == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "text is required")
	}
	if s.ai == nil || !s.ai.Configured() {
		return nil, apperr.New(apperr.KindUpstreamUnavailable, "AI provider is not configured")
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = user.PreferredCurrency
	}
	if req.LanguageCode == "" {
		req.LanguageCode = user.PreferredLanguage
	}

	// Give the model the caller's open debts so payments can be linked.
	if len(req.OpenDebts) == 0 {
		debts, err := s.ListOpenDebts(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, d := range debts {
			remaining := d.Amount
			if d.RemainingAmount != nil {
				remaining = *d.RemainingAmount
			}
			req.OpenDebts = append(req.OpenDebts, fmt.Sprintf(
				"id=%s contact=%s type=%s remaining=%s date=%s",
				d.ID, d.ContactName, d.Type, remaining, d.Date.Format("2006-01-02")))
		}
	}

	result, err := s.ai.ParseFinancialInput(ctx, req)
	if err != nil {
		s.log.Errorf("AI parse failed for user %s: %v", userID, err)
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, "AI provider request failed", err)
	}
	return result, nil
}

// WeeklyInsights summarizes the user's last 30 days of activity via the AI provider
func (s *Service) WeeklyInsights(ctx context.Context, userID string) (string, error) {
	if s.ai == nil || !s.ai.Configured() {
		return "", apperr.New(apperr.KindUpstreamUnavailable, "AI provider is not configured")
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return "", err
	}

	since := time.Now().UTC().AddDate(0, 0, -30)
	transactions, err := s.repo.ListTransactionsSince(ctx, userID, since)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(transactions))
	for _, t := range transactions {
		line := fmt.Sprintf("%s %s %s %q", t.Date.Format("2006-01-02"), t.Type, t.Amount, t.Description)
		if t.ContactName != "" {
			line += " contact=" + t.ContactName
		}
		lines = append(lines, line)
	}

	summary, err := s.ai.WeeklySummary(ctx, lines, currencySymbol(user.PreferredCurrency), user.PreferredLanguage)
	if err != nil {
		s.log.Errorf("AI insights failed for user %s: %v", userID, err)
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, "AI provider request failed", err)
	}
	return summary, nil
}

func currencySymbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "JPY":
		return "¥"
	default:
		return "$"
	}
}
