package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeyHex = strings.Repeat("0123456789abcdef", 4)

func newTestTokenService(t *testing.T, accessDuration time.Duration) *TokenService {
	t.Helper()

	svc, err := NewTokenService(testKeyHex, accessDuration, 24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceKeyValidation(t *testing.T) {
	_, err := NewTokenService("too-short", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("zz", 32), time.Minute, time.Hour)
	assert.Error(t, err, "non-hex key should be rejected")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	user := &domain.User{ID: "user-1", Email: "reader@example.com"}
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-1", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessTokenWrongKey(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	other, err := NewTokenService(strings.Repeat("fedcba9876543210", 4), 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-1", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	_, err := svc.VerifyAccessToken("v4.local.garbage")
	assert.Error(t, err)
}

func TestRefreshTokenEntropy(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	t1, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	t2, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	assert.NotEqual(t, t1, HashRefreshToken(t1), "stored hash must differ from the token")
	assert.Equal(t, HashRefreshToken(t1), HashRefreshToken(t1))
}
