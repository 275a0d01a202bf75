package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	domainerrors "github.com/readcircle/readcircle-server/internal/errors"

	"github.com/readcircle/readcircle-server/internal/auth"
	"github.com/readcircle/readcircle-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeyHex = strings.Repeat("0123456789abcdef", 4)

func newTestAuthService(t *testing.T, refreshDuration time.Duration) (*AuthService, *store.Store) {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute, refreshDuration)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(s, tokens, logger), s
}

func TestRegister(t *testing.T) {
	svc, _ := newTestAuthService(t, 24*time.Hour)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterParams{
		Email:       "  Reader@Example.com ",
		DisplayName: "Reader",
		Password:    "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t, 24*time.Hour)
	ctx := context.Background()

	tests := []struct {
		name   string
		params RegisterParams
	}{
		{"empty email", RegisterParams{DisplayName: "x", Password: "password123"}},
		{"email without at", RegisterParams{Email: "nope", DisplayName: "x", Password: "password123"}},
		{"empty display name", RegisterParams{Email: "a@b.com", Password: "password123"}},
		{"short password", RegisterParams{Email: "a@b.com", DisplayName: "x", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.params)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, 24*time.Hour)
	ctx := context.Background()

	params := RegisterParams{Email: "reader@example.com", DisplayName: "Reader", Password: "password123"}
	_, _, err := svc.Register(ctx, params)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, params)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t, 24*time.Hour)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterParams{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "password123",
	})
	require.NoError(t, err)

	user, pair, err := svc.Login(ctx, "reader@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)

	// Wrong password and unknown email report the same failure.
	_, _, err = svc.Login(ctx, "reader@example.com", "wrong-password")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestAuthService(t, 24*time.Hour)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, RegisterParams{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "password123",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token must be dead after rotation.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	// The rotated one keeps working.
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshExpiredSession(t *testing.T) {
	svc, s := newTestAuthService(t, -time.Minute)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, RegisterParams{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "password123",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	// The expired session is deleted on the failed refresh.
	_, err = s.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(pair.RefreshToken))
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestLogout(t *testing.T) {
	svc, _ := newTestAuthService(t, 24*time.Hour)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, RegisterParams{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	// Logging out an already-dead token is a no-op.
	assert.NoError(t, svc.Logout(ctx, pair.RefreshToken))
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService(t, 24*time.Hour)

	_, err := svc.VerifyAccessToken("v4.local.not-a-real-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestCleanupExpiredSessions(t *testing.T) {
	svc, _ := newTestAuthService(t, -time.Minute)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterParams{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "password123",
	})
	require.NoError(t, err)

	deleted, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}
