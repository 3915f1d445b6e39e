package models

import "github.com/shopspring/decimal"

// Balance classification for a contact relative to the user
const (
	BalanceYouOwe    = "you_owe"
	BalanceOwedToYou = "owed_to_you"
	BalanceSettled   = "settled"
)

// ContactBalance is the per-contact net balance derived from transactions
type ContactBalance struct {
	ContactID   string          `json:"contact_id"`
	ContactName string          `json:"contact_name"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	Status      string          `json:"status"`
}

// AccountSummary represents liquidity and debt bucket totals
type AccountSummary struct {
	Cash   decimal.Decimal `json:"cash"`
	Bank   decimal.Decimal `json:"bank"`
	Credit decimal.Decimal `json:"credit"` // receivables: money owed to the user
	Loan   decimal.Decimal `json:"loan"`   // payables: money the user owes
}
