package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vantrack/vantrack-api/internal/models"
)

// balanceSign is the per-contact net contribution of a transaction type.
// Receivables increase what the contact owes the user, payables decrease it,
// payments move the net back toward zero. Personal cash movements (income,
// expense, transfer) carry no counterparty debt and contribute nothing.
func balanceSign(t models.TransactionType) int {
	switch t {
	case models.TypeCreditReceivable, models.TypeLoanReceivable:
		return 1
	case models.TypeCreditPayable, models.TypeLoanPayable:
		return -1
	case models.TypePaymentReceived:
		return -1
	case models.TypePaymentMade:
		return 1
	}
	return 0
}

// ComputeBalances derives the per-contact net balance for a user.
// Transactions without a contact are personal and excluded. The sum is
// order-independent. Settled (net zero) contacts are omitted unless
// includeSettled is set. Rows are ordered by contact name, then id.
func (s *Service) ComputeBalances(ctx context.Context, userID string, includeSettled bool) ([]models.ContactBalance, error) {
	transactions, err := s.repo.ListAllTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	nets := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.ContactID == nil {
			continue
		}
		sign := balanceSign(t.Type)
		if sign == 0 {
			continue
		}
		contribution := t.Amount
		if sign < 0 {
			contribution = contribution.Neg()
		}
		nets[*t.ContactID] = nets[*t.ContactID].Add(contribution)
	}

	contacts, err := s.repo.ListAllContacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		names[c.ID] = c.Name
	}

	balances := make([]models.ContactBalance, 0, len(nets))
	for contactID, net := range nets {
		if net.IsZero() && !includeSettled {
			continue
		}
		status := models.BalanceSettled
		switch {
		case net.IsPositive():
			status = models.BalanceOwedToYou
		case net.IsNegative():
			status = models.BalanceYouOwe
		}
		balances = append(balances, models.ContactBalance{
			ContactID:   contactID,
			ContactName: names[contactID],
			NetAmount:   net,
			Status:      status,
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].ContactName != balances[j].ContactName {
			return balances[i].ContactName < balances[j].ContactName
		}
		return balances[i].ContactID < balances[j].ContactID
	})
	return balances, nil
}

// ListOpenDebts returns the debt-typed transactions of contacts whose net
// balance is non-zero, most recent first with id as the tiebreaker.
func (s *Service) ListOpenDebts(ctx context.Context, userID string) ([]models.Transaction, error) {
	transactions, err := s.repo.ListAllTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	nets := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.ContactID == nil {
			continue
		}
		sign := balanceSign(t.Type)
		if sign == 0 {
			continue
		}
		contribution := t.Amount
		if sign < 0 {
			contribution = contribution.Neg()
		}
		nets[*t.ContactID] = nets[*t.ContactID].Add(contribution)
	}

	// Repo order is already date desc, id desc; filtering preserves it.
	var open []models.Transaction
	for _, t := range transactions {
		if !models.IsDebtType(t.Type) || t.ContactID == nil {
			continue
		}
		if nets[*t.ContactID].IsZero() {
			continue
		}
		open = append(open, t)
	}
	return open, nil
}

// AccountSummary totals the user's liquidity (cash/bank) and outstanding
// receivable/payable buckets from the full transaction history.
func (s *Service) AccountSummary(ctx context.Context, userID string) (*models.AccountSummary, error) {
	transactions, err := s.repo.ListAllTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.AccountSummary{
		Cash:   decimal.Zero,
		Bank:   decimal.Zero,
		Credit: decimal.Zero,
		Loan:   decimal.Zero,
	}
	liquidity := func(account models.AccountType, delta decimal.Decimal) {
		if account == models.AccountBank {
			summary.Bank = summary.Bank.Add(delta)
		} else {
			summary.Cash = summary.Cash.Add(delta)
		}
	}

	for _, t := range transactions {
		amt := t.Amount
		switch t.Type {
		case models.TypeIncome:
			liquidity(t.Account, amt)
		case models.TypeExpense, models.TypeTransfer:
			liquidity(t.Account, amt.Neg())
		case models.TypeCreditReceivable:
			summary.Credit = summary.Credit.Add(amt)
		case models.TypeCreditPayable:
			summary.Loan = summary.Loan.Add(amt)
		case models.TypeLoanReceivable:
			liquidity(t.Account, amt.Neg())
			summary.Credit = summary.Credit.Add(amt)
		case models.TypeLoanPayable:
			liquidity(t.Account, amt)
			summary.Loan = summary.Loan.Add(amt)
		case models.TypePaymentReceived:
			liquidity(t.Account, amt)
			summary.Credit = summary.Credit.Sub(amt)
		case models.TypePaymentMade:
			liquidity(t.Account, amt.Neg())
			summary.Loan = summary.Loan.Sub(amt)
		}
	}
	return summary, nil
}
