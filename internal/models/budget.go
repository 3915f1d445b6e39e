package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetType classifies what a budget tracks
type BudgetType string

const (
	BudgetSpendingLimit BudgetType = "spending_limit"
	BudgetIncomeGoal    BudgetType = "income_goal"
	BudgetSavingsGoal   BudgetType = "savings_goal"
	BudgetProfitGoal    BudgetType = "profit_goal"
)

// BudgetPeriod is the recurrence window of a budget
type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// ValidBudgetType reports whether t is a known budget type
func ValidBudgetType(t BudgetType) bool {
	switch t {
	case BudgetSpendingLimit, BudgetIncomeGoal, BudgetSavingsGoal, BudgetProfitGoal:
		return true
	}
	return false
}

// ValidBudgetPeriod reports whether p is a known budget period
func ValidBudgetPeriod(p BudgetPeriod) bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Budget represents a spending limit or financial goal
type Budget struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Type           BudgetType      `json:"type"`
	Category       string          `json:"category,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Period         BudgetPeriod    `json:"period"`
	AlertAtPercent float64         `json:"alert_at_percent"`
	IsActive       bool            `json:"is_active"`
	LastAlertedAt  *time.Time      `json:"last_alerted_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BudgetProgress is a budget with its computed progress for the current period
type BudgetProgress struct {
	Budget
	CurrentAmount   decimal.Decimal `json:"current_amount"`
	ProgressPercent float64         `json:"progress_percent"`
	Status          string          `json:"status"` // on_track, warning, over_budget, achieved
	PeriodStart     time.Time       `json:"period_start"`
}
