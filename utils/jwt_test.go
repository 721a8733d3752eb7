package utils

import (
	"testing"
	"time"

	"tradelink/models"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")
	u := models.CurrentUser{ID: "u-1", Name: "Jo", Email: "jo@example.com"}

	token, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	got, err := IdentityFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestIdentityTokenRejected(t *testing.T) {
	SetSecret("test-secret")
	u := models.CurrentUser{ID: "u-1", Name: "Jo", Email: "jo@example.com"}

	expired, err := GenerateToken(u, -time.Minute)
	require.NoError(t, err)
	_, err = IdentityFromToken(expired)
	assert.Error(t, err)

	token, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)
	SetSecret("rotated")
	_, err = IdentityFromToken(token)
	assert.Error(t, err, "signature from the old key")

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": "Jo"})
	signed, err := noSub.SignedString([]byte("rotated"))
	require.NoError(t, err)
	_, err = IdentityFromToken(signed)
	assert.Error(t, err)

	_, err = IdentityFromToken("garbage")
	assert.Error(t, err)
}
