package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestAccessToken_RoundTrip(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute)
	tok, err := SignAccessToken("shop@example.com", "retailer", exp, secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", claims.Subject)
	assert.Equal(t, "retailer", claims.Role)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_Expired(t *testing.T) {
	tok, err := SignAccessToken("shop@example.com", "retailer", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestAccessToken_WrongSecret(t *testing.T) {
	tok, err := SignAccessToken("shop@example.com", "retailer", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, []byte("other"))
	require.Error(t, err)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	tok, err := SignRefreshToken("shop@example.com", "jti-1", time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "jti-1", claims.ID)
	assert.Equal(t, "shop@example.com", claims.Subject)

	_, err = RefreshClaimsFromToken("garbage", secret)
	require.Error(t, err)
}
