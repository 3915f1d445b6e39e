package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies how a transaction moves money
type TransactionType string

const (
	TypeIncome           TransactionType = "income"
	TypeExpense          TransactionType = "expense"
	TypeTransfer         TransactionType = "transfer"
	TypeCreditReceivable TransactionType = "credit_receivable" // sold on credit, they owe you
	TypeCreditPayable    TransactionType = "credit_payable"    // bought on credit, you owe them
	TypeLoanReceivable   TransactionType = "loan_receivable"   // you lent money
	TypeLoanPayable      TransactionType = "loan_payable"      // you borrowed money
	TypePaymentReceived  TransactionType = "payment_received"  // they repaid a debt
	TypePaymentMade      TransactionType = "payment_made"      // you repaid a debt
)

// AccountType is the liquidity bucket a transaction touches
type AccountType string

const (
	AccountCash AccountType = "cash"
	AccountBank AccountType = "bank"
)

// DebtStatus tracks repayment of credit/loan transactions
type DebtStatus string

const (
	DebtOpen    DebtStatus = "open"
	DebtPartial DebtStatus = "partial"
	DebtSettled DebtStatus = "settled"
)

// ValidTransactionType reports whether t is a known transaction type
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer,
		TypeCreditReceivable, TypeCreditPayable,
		TypeLoanReceivable, TypeLoanPayable,
		TypePaymentReceived, TypePaymentMade:
		return true
	}
	return false
}

// IsDebtType reports whether t creates an open debt when recorded
func IsDebtType(t TransactionType) bool {
	switch t {
	case TypeCreditReceivable, TypeCreditPayable, TypeLoanReceivable, TypeLoanPayable:
		return true
	}
	return false
}

// IsPaymentType reports whether t settles existing debts
func IsPaymentType(t TransactionType) bool {
	return t == TypePaymentReceived || t == TypePaymentMade
}

// Transaction represents a financial transaction
type Transaction struct {
	ID                  string           `json:"id"`
	UserID              string           `json:"user_id"`
	Date                time.Time        `json:"date"`
	DueDate             *time.Time       `json:"due_date,omitempty"`
	Amount              decimal.Decimal  `json:"amount"`
	Description         string           `json:"description"`
	Category            string           `json:"category,omitempty"`
	Type                TransactionType  `json:"type"`
	Account             AccountType      `json:"account"`
	ContactName         string           `json:"contact_name,omitempty"`
	ContactID           *string          `json:"contact_id,omitempty"`
	LinkedTransactionID *string          `json:"linked_transaction_id,omitempty"`
	RemainingAmount     *decimal.Decimal `json:"remaining_amount,omitempty"`
	Status              *DebtStatus      `json:"status,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}
