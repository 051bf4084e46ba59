package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
)

func TestRegister(t *testing.T) {
	setupDB(t)
	svc := NewAuthService()

	user, err := svc.Register("Alice", "Alice@Example.com", "super-secret")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, auth.RoleUser, user.Role)
	assert.NotEqual(t, "super-secret", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "super-secret"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupDB(t)
	svc := NewAuthService()

	_, err := svc.Register("Alice", "alice@example.com", "super-secret")
	require.NoError(t, err)

	_, err = svc.Register("Other Alice", "alice@example.com", "another-secret")
	assert.True(t, apperr.IsConflict(err))
}

func TestLogin(t *testing.T) {
	setupDB(t)
	svc := NewAuthService()

	registered, err := svc.Register("Alice", "alice@example.com", "super-secret")
	require.NoError(t, err)

	user, tokens, err := svc.Login("alice@example.com", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := auth.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
}

func TestLoginBadCredentials(t *testing.T) {
	setupDB(t)
	svc := NewAuthService()

	_, err := svc.Register("Alice", "alice@example.com", "super-secret")
	require.NoError(t, err)

	_, _, err = svc.Login("alice@example.com", "wrong-password")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	wrongPass := apperr.Message(err)

	_, _, err = svc.Login("nobody@example.com", "super-secret")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// Unknown email and wrong password must be indistinguishable.
	assert.Equal(t, wrongPass, apperr.Message(err))
}

func TestMe(t *testing.T) {
	setupDB(t)
	svc := NewAuthService()

	registered, err := svc.Register("Alice", "alice@example.com", "super-secret")
	require.NoError(t, err)

	user, err := svc.Me(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.Me(9999)
	assert.True(t, apperr.IsNotFound(err))
}
