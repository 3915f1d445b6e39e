package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftStatus is the lifecycle state of a draft transaction
type DraftStatus string

const (
	DraftPending   DraftStatus = "pending"
	DraftConfirmed DraftStatus = "confirmed"
	DraftDiscarded DraftStatus = "discarded"
)

// Draft is a transaction candidate awaiting user confirmation,
// typically produced by the AI parser.
type Draft struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	MessageID           *string         `json:"message_id,omitempty"`
	Date                time.Time       `json:"date"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	Category            string          `json:"category,omitempty"`
	Type                TransactionType `json:"type"`
	Account             AccountType     `json:"account"`
	ContactName         string          `json:"contact_name,omitempty"`
	ContactID           *string         `json:"contact_id,omitempty"`
	DueDate             *time.Time      `json:"due_date,omitempty"`
	LinkedTransactionID *string         `json:"linked_transaction_id,omitempty"`
	Status              DraftStatus     `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
