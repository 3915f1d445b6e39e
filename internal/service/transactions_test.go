package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/models"
)

func (suite *ServiceTestSuite) TestCreateTransactionValidation() {
	ctx := context.Background()

	_, err := suite.svc.CreateTransaction(ctx, suite.userID, CreateTransactionInput{
		Amount: amount(0), Description: "zero", Type: models.TypeExpense,
	})
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = suite.svc.CreateTransaction(ctx, suite.userID, CreateTransactionInput{
		Amount: amount(10), Description: "bad type", Type: "gift",
	})
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = suite.svc.CreateTransaction(ctx, suite.userID, CreateTransactionInput{
		Amount: amount(10), Description: "bad account", Type: models.TypeExpense, Account: "wallet",
	})
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestDebtStartsOpenWithFullRemaining() {
	t := suite.mustCreate(CreateTransactionInput{
		Amount:      amount(250),
		Description: "goods on credit",
		Type:        models.TypeCreditReceivable,
		ContactName: "Alice",
	})

	require.NotNil(suite.T(), t.Status)
	assert.Equal(suite.T(), models.DebtOpen, *t.Status)
	require.NotNil(suite.T(), t.RemainingAmount)
	assert.True(suite.T(), t.RemainingAmount.Equal(amount(250)))
}

func (suite *ServiceTestSuite) TestContactAutoCreatedAndReusedCaseInsensitively() {
	ctx := context.Background()

	first := suite.mustCreate(CreateTransactionInput{
		Amount: amount(100), Description: "lent", Type: models.TypeLoanReceivable, ContactName: "Bob",
	})
	second := suite.mustCreate(CreateTransactionInput{
		Amount: amount(50), Description: "lent more", Type: models.TypeLoanReceivable, ContactName: "bob",
	})

	require.NotNil(suite.T(), first.ContactID)
	require.NotNil(suite.T(), second.ContactID)
	assert.Equal(suite.T(), *first.ContactID, *second.ContactID)
	// Name keeps its original spelling.
	assert.Equal(suite.T(), "Bob", second.ContactName)

	contacts, total, err := suite.svc.ListContacts(ctx, suite.userID, "", 0, 100)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, total)
	require.Len(suite.T(), contacts, 1)
	assert.Equal(suite.T(), "Bob", contacts[0].Name)
}

func (suite *ServiceTestSuite) TestPaymentAppliedFIFOAcrossDebts() {
	ctx := context.Background()

	day1 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	older := suite.mustCreate(CreateTransactionInput{
		Date:   &day1,
		Amount: amount(50), Description: "first sale on credit", Type: models.TypeCreditReceivable, ContactName: "Carol",
	})
	newer := suite.mustCreate(CreateTransactionInput{
		Date:   &day2,
		Amount: amount(70), Description: "second sale on credit", Type: models.TypeCreditReceivable, ContactName: "Carol",
	})

	payment := suite.mustCreate(CreateTransactionInput{
		Amount: amount(60), Description: "partial repayment", Type: models.TypePaymentReceived, ContactName: "Carol",
	})
	require.NotNil(suite.T(), payment.LinkedTransactionID)

	olderAfter, err := suite.svc.GetTransaction(ctx, suite.userID, older.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DebtSettled, *olderAfter.Status)
	assert.True(suite.T(), olderAfter.RemainingAmount.IsZero())

	newerAfter, err := suite.svc.GetTransaction(ctx, suite.userID, newer.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DebtPartial, *newerAfter.Status)
	assert.True(suite.T(), newerAfter.RemainingAmount.Equal(amount(60)))

	// One split payment row per debt reached.
	olderPayments, err := suite.svc.ListDebtPayments(ctx, suite.userID, older.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), olderPayments, 1)
	assert.True(suite.T(), olderPayments[0].Amount.Equal(amount(50)))

	newerPayments, err := suite.svc.ListDebtPayments(ctx, suite.userID, newer.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), newerPayments, 1)
	assert.True(suite.T(), newerPayments[0].Amount.Equal(amount(10)))
}

func (suite *ServiceTestSuite) TestLinkedDebtPaidBeforeOlderOnes() {
	ctx := context.Background()

	day1 := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	suite.mustCreate(CreateTransactionInput{
		Date:   &day1,
		Amount: amount(40), Description: "older debt", Type: models.TypeCreditReceivable, ContactName: "Dave",
	})
	target := suite.mustCreate(CreateTransactionInput{
		Date:   &day2,
		Amount: amount(30), Description: "targeted debt", Type: models.TypeCreditReceivable, ContactName: "Dave",
	})

	suite.mustCreate(CreateTransactionInput{
		Amount:              amount(30),
		Description:         "repays the targeted debt",
		Type:                models.TypePaymentReceived,
		ContactName:         "Dave",
		LinkedTransactionID: &target.ID,
	})

	after, err := suite.svc.GetTransaction(ctx, suite.userID, target.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DebtSettled, *after.Status)
}

func (suite *ServiceTestSuite) TestPaymentWithoutOpenDebtStoredStandalone() {
	payment := suite.mustCreate(CreateTransactionInput{
		Amount: amount(20), Description: "repayment out of nowhere", Type: models.TypePaymentReceived, ContactName: "Eve",
	})
	assert.Nil(suite.T(), payment.LinkedTransactionID)
	assert.True(suite.T(), payment.Amount.Equal(amount(20)))
}

func (suite *ServiceTestSuite) TestUpdateTransactionPatch() {
	ctx := context.Background()
	t := suite.mustCreate(CreateTransactionInput{
		Amount: amount(15), Description: "coffee", Category: "food", Type: models.TypeExpense,
	})

	newDescription := "coffee and cake"
	newAmount := amount(25)
	updated, err := suite.svc.UpdateTransaction(ctx, suite.userID, t.ID, UpdateTransactionInput{
		Description: &newDescription,
		Amount:      &newAmount,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "coffee and cake", updated.Description)
	assert.True(suite.T(), updated.Amount.Equal(amount(25)))
	// Untouched fields survive.
	assert.Equal(suite.T(), "food", updated.Category)
}

func (suite *ServiceTestSuite) TestListTransactionsFilterAndTotal() {
	ctx := context.Background()
	suite.mustCreate(CreateTransactionInput{Amount: amount(10), Description: "a", Type: models.TypeExpense})
	suite.mustCreate(CreateTransactionInput{Amount: amount(20), Description: "b", Type: models.TypeExpense})
	suite.mustCreate(CreateTransactionInput{Amount: amount(30), Description: "c", Type: models.TypeIncome})

	expenses, total, err := suite.svc.ListTransactions(ctx, suite.userID, "expense", 0, 100)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, total)
	assert.Len(suite.T(), expenses, 2)

	all, total, err := suite.svc.ListTransactions(ctx, suite.userID, "", 0, 1)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, total)
	assert.Len(suite.T(), all, 1)
}

func (suite *ServiceTestSuite) TestDeleteTransactionNotFound() {
	err := suite.svc.DeleteTransaction(context.Background(), suite.userID, "missing-id")
	require.Error(suite.T(), err)
	assert.Equal(suite.T(), apperr.KindNotFound, apperr.KindOf(err))
}
