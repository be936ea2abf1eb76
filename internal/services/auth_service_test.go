package services

import (
	"errors"
	"testing"
	"time"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/models"
	"food-order-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T) (AuthService, *fakeTokenStore) {
	t.Helper()
	db := newTestDB(t)
	store := newFakeTokenStore()
	svc := NewAuthService(
		repository.NewUserRepository(db),
		store,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	return svc, store
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(RegisterInput{
		Email:    "new@test.local",
		Password: "secret123",
		Name:     "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleCustomer), user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	input := RegisterInput{Email: "dup@test.local", Password: "secret123", Name: "A"}
	_, err := svc.Register(input)
	require.NoError(t, err)

	_, err = svc.Register(input)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "role@test.local",
		Password: "secret123",
		Name:     "A",
		Role:     "superuser",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, store := newAuthService(t)

	user, err := svc.Register(RegisterInput{
		Email:    "login@test.local",
		Password: "secret123",
		Name:     "Login User",
	})
	require.NoError(t, err)

	tokens, err := svc.Login("login@test.local", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, user.ID, store.tokens[tokens.RefreshToken])

	// The access token is a signed JWT carrying the user identity.
	parsed, err := jwt.Parse(tokens.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "login@test.local",
		Password: "secret123",
		Name:     "Login User",
	})
	require.NoError(t, err)

	_, err = svc.Login("login@test.local", "wrong")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, err = svc.Login("nobody@test.local", "secret123")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, store := newAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "rotate@test.local",
		Password: "secret123",
		Name:     "Rotate User",
	})
	require.NoError(t, err)

	tokens, err := svc.Login("rotate@test.local", "secret123")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, refreshed.RefreshToken)

	// The used token is gone; replaying it must fail.
	_, stillThere := store.tokens[tokens.RefreshToken]
	assert.False(t, stillThere)
	_, err = svc.Refresh(tokens.RefreshToken)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestRefreshFailedRotationIssuesNoNewToken(t *testing.T) {
	svc, store := newAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "stuck@test.local",
		Password: "secret123",
		Name:     "Stuck User",
	})
	require.NoError(t, err)

	tokens, err := svc.Login("stuck@test.local", "secret123")
	require.NoError(t, err)

	store.deleteErr = errors.New("store unavailable")
	_, err = svc.Refresh(tokens.RefreshToken)
	require.Error(t, err)

	// A failed rotation must not widen the set of valid tokens.
	assert.Len(t, store.tokens, 1)
	_, stillThere := store.tokens[tokens.RefreshToken]
	assert.True(t, stillThere)
}

func TestLogoutDeletesRefreshToken(t *testing.T) {
	svc, store := newAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "logout@test.local",
		Password: "secret123",
		Name:     "Logout User",
	})
	require.NoError(t, err)

	tokens, err := svc.Login("logout@test.local", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(tokens.RefreshToken))
	_, stillThere := store.tokens[tokens.RefreshToken]
	assert.False(t, stillThere)
}
