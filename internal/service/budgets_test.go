package service

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/models"
)

// recordingMailer captures budget alerts instead of sending them
type recordingMailer struct {
	sent []models.BudgetProgress
}

func (m *recordingMailer) SendBudgetAlert(to, name string, progress models.BudgetProgress) error {
	m.sent = append(m.sent, progress)
	return nil
}

func (suite *ServiceTestSuite) TestSpendingLimitProgress() {
	ctx := context.Background()

	budget, err := suite.svc.CreateBudget(ctx, suite.userID, CreateBudgetInput{
		Name:     "Food budget",
		Type:     models.BudgetSpendingLimit,
		Category: "food",
		Amount:   amount(100),
		Period:   models.PeriodMonthly,
	})
	require.NoError(suite.T(), err)

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(90), Description: "groceries", Category: "food", Type: models.TypeExpense,
	})
	// Different category, must not count against the limit.
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(50), Description: "fuel", Category: "transport", Type: models.TypeExpense,
	})

	progress, err := suite.svc.GetBudget(ctx, suite.userID, budget.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), progress.CurrentAmount.Equal(amount(90)))
	assert.InDelta(suite.T(), 90.0, progress.ProgressPercent, 0.001)
	// Default alert threshold is 80 percent.
	assert.Equal(suite.T(), "warning", progress.Status)
}

func (suite *ServiceTestSuite) TestSpendingLimitOverBudget() {
	ctx := context.Background()

	budget, err := suite.svc.CreateBudget(ctx, suite.userID, CreateBudgetInput{
		Name:   "Everything",
		Type:   models.BudgetSpendingLimit,
		Amount: amount(50),
	})
	require.NoError(suite.T(), err)

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(75), Description: "splurge", Type: models.TypeExpense,
	})

	progress, err := suite.svc.GetBudget(ctx, suite.userID, budget.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "over_budget", progress.Status)
}

func (suite *ServiceTestSuite) TestIncomeGoalAchieved() {
	ctx := context.Background()

	budget, err := suite.svc.CreateBudget(ctx, suite.userID, CreateBudgetInput{
		Name:   "Monthly sales",
		Type:   models.BudgetIncomeGoal,
		Amount: amount(1000),
	})
	require.NoError(suite.T(), err)

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(1200), Description: "big sale", Type: models.TypeIncome,
	})

	progress, err := suite.svc.GetBudget(ctx, suite.userID, budget.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "achieved", progress.Status)
}

func (suite *ServiceTestSuite) TestProfitGoalSubtractsExpenses() {
	ctx := context.Background()

	budget, err := suite.svc.CreateBudget(ctx, suite.userID, CreateBudgetInput{
		Name:   "Profit",
		Type:   models.BudgetProfitGoal,
		Amount: amount(100),
	})
	require.NoError(suite.T(), err)

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(300), Description: "sales", Type: models.TypeIncome,
	})
	suite.mustCreate(CreateTransactionInput{
		Amount: amount(250), Description: "stock", Type: models.TypeExpense,
	})

	progress, err := suite.svc.GetBudget(ctx, suite.userID, budget.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), progress.CurrentAmount.Equal(amount(50)))
	assert.Equal(suite.T(), "on_track", progress.Status)
}

func (suite *ServiceTestSuite) TestCreateBudgetValidation() {
	ctx := context.Background()

	_, err := suite.svc.CreateBudget(ctx, suite.userID, CreateBudgetInput{
		Name: "Bad", Type: "retirement", Amount: amount(10),
	})
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = suite.svc.CreateBudget(ctx, suite.userID, CreateBudgetInput{
		Name: "Bad", Type: models.BudgetSpendingLimit, Amount: amount(0),
	})
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestBudgetAlertSentOncePerPeriod() {
	ctx := context.Background()

	_, err := suite.svc.CreateBudget(ctx, suite.userID, CreateBudgetInput{
		Name:   "Tight",
		Type:   models.BudgetSpendingLimit,
		Amount: amount(100),
	})
	require.NoError(suite.T(), err)

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(95), Description: "almost everything", Type: models.TypeExpense,
	})

	mailer := &recordingMailer{}
	require.NoError(suite.T(), suite.svc.SendBudgetAlerts(ctx, mailer))
	require.Len(suite.T(), mailer.sent, 1)
	assert.Equal(suite.T(), "warning", mailer.sent[0].Status)

	// The second sweep in the same period stays quiet.
	require.NoError(suite.T(), suite.svc.SendBudgetAlerts(ctx, mailer))
	assert.Len(suite.T(), mailer.sent, 1)
}

func (suite *ServiceTestSuite) TestNoAlertForOnTrackBudget() {
	ctx := context.Background()

	_, err := suite.svc.CreateBudget(ctx, suite.userID, CreateBudgetInput{
		Name:   "Roomy",
		Type:   models.BudgetSpendingLimit,
		Amount: amount(1000),
	})
	require.NoError(suite.T(), err)

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(100), Description: "small spend", Type: models.TypeExpense,
	})

	mailer := &recordingMailer{}
	require.NoError(suite.T(), suite.svc.SendBudgetAlerts(ctx, mailer))
	assert.Empty(suite.T(), mailer.sent)
}
