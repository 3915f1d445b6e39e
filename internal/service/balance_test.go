package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantrack/vantrack-api/internal/models"
)

func (suite *ServiceTestSuite) TestNetBalancePerContact() {
	ctx := context.Background()

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(100), Description: "lent", Type: models.TypeLoanReceivable, ContactName: "Frank",
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(30), Description: "borrowed back", Type: models.TypeLoanPayable, ContactName: "Frank",
	})

	balances, err := suite.svc.ComputeBalances(ctx, suite.userID, false)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), balances, 1)
	assert.Equal(suite.T(), "Frank", balances[0].ContactName)
	assert.True(suite.T(), balances[0].NetAmount.Equal(amount(70)))
	assert.Equal(suite.T(), models.BalanceOwedToYou, balances[0].Status)
}

func (suite *ServiceTestSuite) TestNegativeNetMeansYouOwe() {
	ctx := context.Background()

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(200), Description: "bought on credit", Type: models.TypeCreditPayable, ContactName: "Grace",
	})

	balances, err := suite.svc.ComputeBalances(ctx, suite.userID, false)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), balances, 1)
	assert.True(suite.T(), balances[0].NetAmount.Equal(amount(-200)))
	assert.Equal(suite.T(), models.BalanceYouOwe, balances[0].Status)
}

func (suite *ServiceTestSuite) TestPersonalTransactionsExcludedFromBalances() {
	ctx := context.Background()

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(500), Description: "salary", Type: models.TypeIncome,
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(50), Description: "groceries", Type: models.TypeExpense,
	})

	balances, err := suite.svc.ComputeBalances(ctx, suite.userID, false)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), balances)
}

func (suite *ServiceTestSuite) TestSettledContactOmittedUnlessRequested() {
	ctx := context.Background()

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(80), Description: "lent", Type: models.TypeLoanReceivable, ContactName: "Heidi",
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(80), Description: "fully repaid", Type: models.TypePaymentReceived, ContactName: "Heidi",
	})

	balances, err := suite.svc.ComputeBalances(ctx, suite.userID, false)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), balances)

	withSettled, err := suite.svc.ComputeBalances(ctx, suite.userID, true)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), withSettled, 1)
	assert.True(suite.T(), withSettled[0].NetAmount.IsZero())
	assert.Equal(suite.T(), models.BalanceSettled, withSettled[0].Status)
}

func (suite *ServiceTestSuite) TestBalancesSortedByContactName() {
	ctx := context.Background()

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(10), Description: "lent", Type: models.TypeLoanReceivable, ContactName: "Zed",
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(10), Description: "lent", Type: models.TypeLoanReceivable, ContactName: "Anna",
	})

	balances, err := suite.svc.ComputeBalances(ctx, suite.userID, false)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), balances, 2)
	assert.Equal(suite.T(), "Anna", balances[0].ContactName)
	assert.Equal(suite.T(), "Zed", balances[1].ContactName)
}

func (suite *ServiceTestSuite) TestBalancesUnchangedByRecordingOrder() {
	ctx := context.Background()

	other, err := suite.svc.Register(ctx, "mirror@example.com", "password123", "Mirror")
	require.NoError(suite.T(), err)

	set := []CreateTransactionInput{
		{Amount: amount(100), Description: "lent", Type: models.TypeLoanReceivable, ContactName: "Vera"},
		{Amount: amount(30), Description: "borrowed back", Type: models.TypeLoanPayable, ContactName: "Vera"},
		{Amount: amount(20), Description: "partial repayment", Type: models.TypePaymentReceived, ContactName: "Vera"},
	}

	for _, input := range set {
		_, err := suite.svc.CreateTransaction(ctx, suite.userID, input)
		require.NoError(suite.T(), err)
	}
	// Same set for the second user, recorded in reverse.
	for i := len(set) - 1; i >= 0; i-- {
		_, err := suite.svc.CreateTransaction(ctx, other.ID, set[i])
		require.NoError(suite.T(), err)
	}

	mine, err := suite.svc.ComputeBalances(ctx, suite.userID, true)
	require.NoError(suite.T(), err)
	theirs, err := suite.svc.ComputeBalances(ctx, other.ID, true)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), mine, 1)
	require.Len(suite.T(), theirs, 1)
	assert.True(suite.T(), mine[0].NetAmount.Equal(amount(50)))
	assert.True(suite.T(), theirs[0].NetAmount.Equal(mine[0].NetAmount))
	assert.Equal(suite.T(), mine[0].Status, theirs[0].Status)
}

func (suite *ServiceTestSuite) TestBalancesIsolatedBetweenUsers() {
	ctx := context.Background()

	other, err := suite.svc.Register(ctx, "other@example.com", "password123", "Other")
	require.NoError(suite.T(), err)

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(100), Description: "lent", Type: models.TypeLoanReceivable, ContactName: "Ivan",
	})

	balances, err := suite.svc.ComputeBalances(ctx, other.ID, false)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), balances)
}

func (suite *ServiceTestSuite) TestOpenDebtsExcludeSettledContacts() {
	ctx := context.Background()

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(60), Description: "open loan", Type: models.TypeLoanReceivable, ContactName: "Judy",
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(40), Description: "settled loan", Type: models.TypeLoanReceivable, ContactName: "Ken",
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(40), Description: "ken repaid", Type: models.TypePaymentReceived, ContactName: "Ken",
	})

	open, err := suite.svc.ListOpenDebts(ctx, suite.userID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), open, 1)
	assert.Equal(suite.T(), "Judy", open[0].ContactName)
}

func (suite *ServiceTestSuite) TestOpenDebtsNewestFirstWithIDTieBreak() {
	ctx := context.Background()

	early := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	first := suite.mustCreate(CreateTransactionInput{
		Date:   &early,
		Amount: amount(10), Description: "same-day debt", Type: models.TypeLoanReceivable, ContactName: "Uma",
	})
	second := suite.mustCreate(CreateTransactionInput{
		Date:   &early,
		Amount: amount(20), Description: "same-day debt two", Type: models.TypeLoanReceivable, ContactName: "Uma",
	})
	newest := suite.mustCreate(CreateTransactionInput{
		Date:   &late,
		Amount: amount(30), Description: "newest debt", Type: models.TypeLoanReceivable, ContactName: "Uma",
	})

	open, err := suite.svc.ListOpenDebts(ctx, suite.userID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), open, 3)

	// Most recent date first; equal dates fall back to id descending.
	assert.Equal(suite.T(), newest.ID, open[0].ID)
	higher, lower := first.ID, second.ID
	if higher < lower {
		higher, lower = lower, higher
	}
	assert.Equal(suite.T(), higher, open[1].ID)
	assert.Equal(suite.T(), lower, open[2].ID)
}

func (suite *ServiceTestSuite) TestAccountSummaryBuckets() {
	ctx := context.Background()

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(1000), Description: "salary", Type: models.TypeIncome, Account: models.AccountBank,
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(200), Description: "groceries", Type: models.TypeExpense, Account: models.AccountCash,
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(300), Description: "lent cash", Type: models.TypeLoanReceivable,
		Account: models.AccountCash, ContactName: "Leo",
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(150), Description: "bought on credit", Type: models.TypeCreditPayable, ContactName: "Mia",
	})

	summary, err := suite.svc.AccountSummary(ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), summary.Bank.Equal(amount(1000)))
	// Expense and the loaned-out cash both left the cash account.
	assert.True(suite.T(), summary.Cash.Equal(amount(-500)))
	assert.True(suite.T(), summary.Credit.Equal(amount(300)))
	assert.True(suite.T(), summary.Loan.Equal(amount(150)))
}
