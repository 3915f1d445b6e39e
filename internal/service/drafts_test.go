package service

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/models"
)

func (suite *ServiceTestSuite) TestConfirmDraftCreatesTransaction() {
	ctx := context.Background()

	draft, err := suite.svc.CreateDraft(ctx, suite.userID, CreateDraftInput{
		Amount:      amount(45),
		Description: "taxi from airport",
		Category:    "transport",
		Type:        models.TypeExpense,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DraftPending, draft.Status)

	transaction, err := suite.svc.ConfirmDraft(ctx, suite.userID, draft.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), transaction.Amount.Equal(amount(45)))
	assert.Equal(suite.T(), models.TypeExpense, transaction.Type)

	confirmed, err := suite.svc.GetDraft(ctx, suite.userID, draft.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DraftConfirmed, confirmed.Status)

	// Confirming twice is rejected.
	_, err = suite.svc.ConfirmDraft(ctx, suite.userID, draft.ID)
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestConfirmDebtDraftSeedsOpenDebt() {
	ctx := context.Background()

	draft, err := suite.svc.CreateDraft(ctx, suite.userID, CreateDraftInput{
		Amount:      amount(120),
		Description: "sold on credit",
		Type:        models.TypeCreditReceivable,
		ContactName: "Sam",
	})
	require.NoError(suite.T(), err)

	transaction, err := suite.svc.ConfirmDraft(ctx, suite.userID, draft.ID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), transaction.Status)
	assert.Equal(suite.T(), models.DebtOpen, *transaction.Status)
	require.NotNil(suite.T(), transaction.ContactID)
}

func (suite *ServiceTestSuite) TestDiscardDraft() {
	ctx := context.Background()

	draft, err := suite.svc.CreateDraft(ctx, suite.userID, CreateDraftInput{
		Amount: amount(10), Description: "maybe", Type: models.TypeExpense,
	})
	require.NoError(suite.T(), err)

	discarded, err := suite.svc.DiscardDraft(ctx, suite.userID, draft.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DraftDiscarded, discarded.Status)

	_, err = suite.svc.ConfirmDraft(ctx, suite.userID, draft.ID)
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))

	// No transaction was created.
	_, total, err := suite.svc.ListTransactions(ctx, suite.userID, "", 0, 100)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, total)
}

func (suite *ServiceTestSuite) TestListDraftsDefaultsToPending() {
	ctx := context.Background()

	pending, err := suite.svc.CreateDraft(ctx, suite.userID, CreateDraftInput{
		Amount: amount(10), Description: "pending one", Type: models.TypeExpense,
	})
	require.NoError(suite.T(), err)

	discardMe, err := suite.svc.CreateDraft(ctx, suite.userID, CreateDraftInput{
		Amount: amount(20), Description: "discard me", Type: models.TypeExpense,
	})
	require.NoError(suite.T(), err)
	_, err = suite.svc.DiscardDraft(ctx, suite.userID, discardMe.ID)
	require.NoError(suite.T(), err)

	drafts, total, err := suite.svc.ListDrafts(ctx, suite.userID, "", 0, 100)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, total)
	require.Len(suite.T(), drafts, 1)
	assert.Equal(suite.T(), pending.ID, drafts[0].ID)

	_, _, err = suite.svc.ListDrafts(ctx, suite.userID, "bogus", 0, 100)
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestCreateDraftsBatch() {
	ctx := context.Background()

	drafts, err := suite.svc.CreateDraftsBatch(ctx, suite.userID, []CreateDraftInput{
		{Amount: amount(5), Description: "bread", Type: models.TypeExpense},
		{Amount: amount(7), Description: "milk", Type: models.TypeExpense},
	})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), drafts, 2)
}
