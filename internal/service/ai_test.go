package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/integrations/gemini"
	"github.com/vantrack/vantrack-api/internal/models"
)

// fakeParser stands in for the Gemini client
type fakeParser struct {
	configured bool
	lastReq    gemini.ParseRequest
	result     *gemini.ParseResult
	summary    string
	err        error
}

func (f *fakeParser) Configured() bool { return f.configured }

func (f *fakeParser) ParseFinancialInput(ctx context.Context, req gemini.ParseRequest) (*gemini.ParseResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeParser) WeeklySummary(ctx context.Context, lines []string, currencySymbol, languageCode string) (string, error) {
	return f.summary, f.err
}

func (suite *ServiceTestSuite) TestParseInputUnconfiguredProvider() {
	suite.svc.ai = &fakeParser{configured: false}

	_, err := suite.svc.ParseInput(context.Background(), suite.userID, gemini.ParseRequest{InputText: "spent 5 on tea"})
	require.Error(suite.T(), err)
	assert.Equal(suite.T(), apperr.KindUpstreamUnavailable, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestParseInputFillsUserContext() {
	fake := &fakeParser{configured: true, result: &gemini.ParseResult{}}
	suite.svc.ai = fake

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(100), Description: "lent", Type: models.TypeLoanReceivable, ContactName: "Tom",
	})

	result, err := suite.svc.ParseInput(context.Background(), suite.userID, gemini.ParseRequest{InputText: "tom paid me back 100"})
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)

	// Defaults come from the user profile, open debts are attached as context.
	assert.Equal(suite.T(), "USD", fake.lastReq.CurrencyCode)
	assert.Equal(suite.T(), "en", fake.lastReq.LanguageCode)
	require.Len(suite.T(), fake.lastReq.OpenDebts, 1)
	assert.True(suite.T(), strings.Contains(fake.lastReq.OpenDebts[0], "Tom"))
}

func (suite *ServiceTestSuite) TestParseInputProviderFailure() {
	suite.svc.ai = &fakeParser{configured: true, err: errors.New("model offline")}

	_, err := suite.svc.ParseInput(context.Background(), suite.userID, gemini.ParseRequest{InputText: "anything"})
	require.Error(suite.T(), err)
	assert.Equal(suite.T(), apperr.KindUpstreamUnavailable, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestParseInputRequiresText() {
	suite.svc.ai = &fakeParser{configured: true}

	_, err := suite.svc.ParseInput(context.Background(), suite.userID, gemini.ParseRequest{})
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestWeeklyInsights() {
	suite.svc.ai = &fakeParser{configured: true, summary: "steady week"}

	suite.mustCreate(CreateTransactionInput{
		Amount: amount(40), Description: "sales", Type: models.TypeIncome,
	})

	summary, err := suite.svc.WeeklyInsights(context.Background(), suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "steady week", summary)
}
