package service

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/models"
)

func (suite *ServiceTestSuite) TestMessageLogRoundTrip() {
	ctx := context.Background()

	_, err := suite.svc.CreateMessage(ctx, suite.userID, models.RoleUser, "sold 3 bags of rice")
	require.NoError(suite.T(), err)
	_, err = suite.svc.CreateMessage(ctx, suite.userID, models.RoleAssistant, "recorded it")
	require.NoError(suite.T(), err)

	messages, total, err := suite.svc.ListMessages(ctx, suite.userID, 0, 100)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, total)
	require.Len(suite.T(), messages, 2)
	// Chronological order, user message first.
	assert.Equal(suite.T(), models.RoleUser, messages[0].Role)

	require.NoError(suite.T(), suite.svc.ClearMessages(ctx, suite.userID))
	_, total, err = suite.svc.ListMessages(ctx, suite.userID, 0, 100)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, total)
}

func (suite *ServiceTestSuite) TestCreateMessageValidation() {
	ctx := context.Background()

	_, err := suite.svc.CreateMessage(ctx, suite.userID, "system", "nope")
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = suite.svc.CreateMessage(ctx, suite.userID, models.RoleUser, "")
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestDeleteMessageOwnedByOtherUser() {
	ctx := context.Background()

	other, err := suite.svc.Register(ctx, "reader@example.com", "password123", "Reader")
	require.NoError(suite.T(), err)

	message, err := suite.svc.CreateMessage(ctx, suite.userID, models.RoleUser, "mine")
	require.NoError(suite.T(), err)

	err = suite.svc.DeleteMessage(ctx, other.ID, message.ID)
	assert.Equal(suite.T(), apperr.KindNotFound, apperr.KindOf(err))
}
