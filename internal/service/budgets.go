package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/models"
	"github.com/vantrack/vantrack-api/internal/repository"
)

// BudgetMailer delivers budget threshold alerts
type BudgetMailer interface {
	SendBudgetAlert(to, name string, progress models.BudgetProgress) error
}

// CreateBudgetInput carries the fields accepted when creating a budget
type CreateBudgetInput struct {
	Name           string
	Type           models.BudgetType
	Category       string
	Amount         decimal.Decimal
	Period         models.BudgetPeriod
	AlertAtPercent float64
}

// UpdateBudgetInput carries the patchable fields; nil means unchanged
type UpdateBudgetInput struct {
	Name           *string
	Category       *string
	Amount         *decimal.Decimal
	Period         *models.BudgetPeriod
	AlertAtPercent *float64
	IsActive       *bool
}

// CreateBudget creates a budget for the user
func (s *Service) CreateBudget(ctx context.Context, userID string, input CreateBudgetInput) (*models.Budget, error) {
	if input.Name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "name is required")
	}
	if !models.ValidBudgetType(input.Type) {
		return nil, apperr.New(apperr.KindInvalidArgument, "unknown budget type")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.New(apperr.KindInvalidArgument, "amount must be positive")
	}
	if input.Period == "" {
		input.Period = models.PeriodMonthly
	}
	if !models.ValidBudgetPeriod(input.Period) {
		return nil, apperr.New(apperr.KindInvalidArgument, "unknown budget period")
	}
	if input.AlertAtPercent <= 0 {
		input.AlertAtPercent = 80
	}

	now := time.Now().UTC()
	budget := &models.Budget{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           input.Name,
		Type:           input.Type,
		Category:       input.Category,
		Amount:         input.Amount,
		Period:         input.Period,
		AlertAtPercent: input.AlertAtPercent,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// GetBudget returns a budget with its current-period progress
func (s *Service) GetBudget(ctx context.Context, userID, id string) (*models.BudgetProgress, error) {
	budget, err := s.repo.FindBudgetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "budget not found")
		}
		return nil, err
	}
	return s.budgetProgress(ctx, budget)
}

// ListBudgets returns the user's budgets, each with current-period progress
func (s *Service) ListBudgets(ctx context.Context, userID string) ([]models.BudgetProgress, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	progresses := make([]models.BudgetProgress, 0, len(budgets))
	for i := range budgets {
		p, err := s.budgetProgress(ctx, &budgets[i])
		if err != nil {
			return nil, err
		}
		progresses = append(progresses, *p)
	}
	return progresses, nil
}

// UpdateBudget applies a partial update to a budget owned by the user
func (s *Service) UpdateBudget(ctx context.Context, userID, id string, input UpdateBudgetInput) (*models.BudgetProgress, error) {
	budget, err := s.repo.FindBudgetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "budget not found")
		}
		return nil, err
	}

	if input.Name != nil {
		budget.Name = *input.Name
	}
	if input.Category != nil {
		budget.Category = *input.Category
	}
	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperr.New(apperr.KindInvalidArgument, "amount must be positive")
		}
		budget.Amount = *input.Amount
	}
	if input.Period != nil {
		if !models.ValidBudgetPeriod(*input.Period) {
			return nil, apperr.New(apperr.KindInvalidArgument, "unknown budget period")
		}
		budget.Period = *input.Period
	}
	if input.AlertAtPercent != nil {
		budget.AlertAtPercent = *input.AlertAtPercent
	}
	if input.IsActive != nil {
		budget.IsActive = *input.IsActive
	}
	budget.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return s.budgetProgress(ctx, budget)
}

// DeleteBudget removes a budget owned by the user
func (s *Service) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteBudget(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "budget not found")
		}
		return err
	}
	return nil
}

// periodStart returns the beginning of the current budget period
func periodStart(period models.BudgetPeriod, now time.Time) time.Time {
	switch period {
	case models.PeriodWeekly:
		// Start of the current ISO week (Monday).
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		day := now.AddDate(0, 0, -(weekday - 1))
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	case models.PeriodYearly:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// budgetProgress computes how far along a budget is in its current period
func (s *Service) budgetProgress(ctx context.Context, budget *models.Budget) (*models.BudgetProgress, error) {
	start := periodStart(budget.Period, time.Now().UTC())
	transactions, err := s.repo.ListTransactionsSince(ctx, budget.UserID, start)
	if err != nil {
		return nil, err
	}

	var income, expense decimal.Decimal
	for _, t := range transactions {
		switch t.Type {
		case models.TypeIncome:
			income = income.Add(t.Amount)
		case models.TypeExpense:
			if budget.Type == models.BudgetSpendingLimit && budget.Category != "" &&
				!strings.Contains(strings.ToLower(t.Category), strings.ToLower(budget.Category)) {
				continue
			}
			expense = expense.Add(t.Amount)
		}
	}

	var current decimal.Decimal
	switch budget.Type {
	case models.BudgetSpendingLimit:
		current = expense
	case models.BudgetIncomeGoal:
		current = income
	default: // savings_goal, profit_goal
		current = income.Sub(expense)
	}

	progress := 0.0
	if budget.Amount.IsPositive() {
		progress, _ = current.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Float64()
	}

	status := "on_track"
	if budget.Type == models.BudgetSpendingLimit {
		switch {
		case progress >= 100:
			status = "over_budget"
		case progress >= budget.AlertAtPercent:
			status = "warning"
		}
	} else if progress >= 100 {
		status = "achieved"
	}

	return &models.BudgetProgress{
		Budget:          *budget,
		CurrentAmount:   current,
		ProgressPercent: progress,
		Status:          status,
		PeriodStart:     start,
	}, nil
}

// SendBudgetAlerts sweeps all active budgets and emails owners whose
// spending-limit budgets crossed their alert threshold, at most once per
// period. Invoked from the cron scheduler.
func (s *Service) SendBudgetAlerts(ctx context.Context, mailer BudgetMailer) error {
	budgets, err := s.repo.ListActiveBudgets(ctx)
	if err != nil {
		return err
	}

	for i := range budgets {
		budget := &budgets[i]
		progress, err := s.budgetProgress(ctx, budget)
		if err != nil {
			s.log.Errorf("Failed to compute budget progress for %s: %v", budget.ID, err)
			continue
		}
		if progress.Status != "warning" && progress.Status != "over_budget" {
			continue
		}
		if budget.LastAlertedAt != nil && !budget.LastAlertedAt.Before(progress.PeriodStart) {
			continue
		}

		user, err := s.repo.FindUserByID(ctx, budget.UserID)
		if err != nil {
			s.log.Errorf("Failed to load user %s for budget alert: %v", budget.UserID, err)
			continue
		}

		name := user.FullName
		if name == "" {
			name = user.Email
		}
		if err := mailer.SendBudgetAlert(user.Email, name, *progress); err != nil {
			s.log.Errorf("Failed to send budget alert for %s: %v", budget.ID, err)
			continue
		}
		if err := s.repo.MarkBudgetAlerted(ctx, budget.ID, time.Now().UTC()); err != nil {
			s.log.Errorf("Failed to mark budget %s alerted: %v", budget.ID, err)
		}
	}
	return nil
}
