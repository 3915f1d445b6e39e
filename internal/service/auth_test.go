package service

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantrack/vantrack-api/internal/apperr"
)

func (suite *ServiceTestSuite) TestRegisterDuplicateEmail() {
	_, err := suite.svc.Register(context.Background(), "owner@example.com", "otherpassword", "Other")
	require.Error(suite.T(), err)
	assert.Equal(suite.T(), apperr.KindDuplicateEmail, apperr.KindOf(err))

	// Uniqueness is case-insensitive.
	_, err = suite.svc.Register(context.Background(), "OWNER@Example.Com", "otherpassword", "Other")
	require.Error(suite.T(), err)
	assert.Equal(suite.T(), apperr.KindDuplicateEmail, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestRegisterRejectsShortPassword() {
	_, err := suite.svc.Register(context.Background(), "short@example.com", "short", "Short")
	require.Error(suite.T(), err)
	assert.Equal(suite.T(), apperr.KindInvalidArgument, apperr.KindOf(err))
}

func (suite *ServiceTestSuite) TestRegisterNeverStoresPlaintextPassword() {
	user, err := suite.svc.Register(context.Background(), "hash@example.com", "password123", "Hash")
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), user.PasswordHash)
	assert.NotContains(suite.T(), user.PasswordHash, "password123")
}

func (suite *ServiceTestSuite) TestLoginReturnsTokenWithUserSubject() {
	token, err := suite.svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(suite.T(), err)

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(suite.T(), err)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(suite.T(), suite.userID, claims.Subject)
	assert.NotNil(suite.T(), claims.ExpiresAt)
}

func (suite *ServiceTestSuite) TestLoginFailuresAreIndistinguishable() {
	_, errUnknown := suite.svc.Login(context.Background(), "nobody@example.com", "password123")
	_, errWrongPass := suite.svc.Login(context.Background(), "owner@example.com", "wrongpassword")

	require.Error(suite.T(), errUnknown)
	require.Error(suite.T(), errWrongPass)
	assert.Equal(suite.T(), apperr.KindInvalidCredentials, apperr.KindOf(errUnknown))
	assert.Equal(suite.T(), apperr.KindInvalidCredentials, apperr.KindOf(errWrongPass))
	assert.Equal(suite.T(), errUnknown.Error(), errWrongPass.Error())
}

func (suite *ServiceTestSuite) TestCurrentUserMissing() {
	_, err := suite.svc.CurrentUser(context.Background(), "no-such-user")
	require.Error(suite.T(), err)
	assert.Equal(suite.T(), apperr.KindUnauthenticated, apperr.KindOf(err))
}
