package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RoundTrip(t *testing.T) {
	auth := NewAuthService("secret", time.Hour)

	token, err := auth.GenerateJWT("user-1")
	require.NoError(t, err)

	userID, err := auth.UserID(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestAuthService_Rejects(t *testing.T) {
	auth := NewAuthService("secret", time.Hour)

	_, err := auth.GenerateJWT("  ")
	assert.ErrorIs(t, err, ErrMissingUserID)

	other, err := NewAuthService("other", time.Hour).GenerateJWT("user-1")
	require.NoError(t, err)
	_, err = auth.UserID(other)
	assert.Error(t, err)

	expired, err := NewAuthService("secret", -time.Minute).GenerateJWT("user-1")
	require.NoError(t, err)
	_, err = auth.UserID(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err := noUser.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = auth.UserID(signed)
	assert.ErrorIs(t, err, ErrMissingUserID)

	_, err = auth.UserID("not-a-token")
	assert.Error(t, err)
}
