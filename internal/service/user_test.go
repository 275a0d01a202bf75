package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	domainerrors "github.com/readcircle/readcircle-server/internal/errors"

	"github.com/readcircle/readcircle-server/internal/auth"
	"github.com/readcircle/readcircle-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) (*UserService, *store.Store) {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(s, logger), s
}

func TestGetUser(t *testing.T) {
	svc, s := newTestUserService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")

	user, err := svc.GetUser(ctx, "reader-1")
	require.NoError(t, err)
	assert.Equal(t, "reader-1@example.com", user.Email)

	_, err = svc.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserMissing)

	_, err = svc.GetUser(ctx, "")
	assert.ErrorIs(t, err, ErrUserIDRequired)
}

func TestUpdateProfile(t *testing.T) {
	svc, s := newTestUserService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")

	name := "New Name"
	user, err := svc.UpdateProfile(ctx, "reader-1", UpdateProfileParams{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.DisplayName)

	empty := ""
	_, err = svc.UpdateProfile(ctx, "reader-1", UpdateProfileParams{DisplayName: &empty})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateProfilePassword(t *testing.T) {
	svc, s := newTestUserService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")

	short := "short"
	_, err := svc.UpdateProfile(ctx, "reader-1", UpdateProfileParams{Password: &short})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	password := "new-password-123"
	user, err := svc.UpdateProfile(ctx, "reader-1", UpdateProfileParams{Password: &password})
	require.NoError(t, err)

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	require.NoError(t, err)
	assert.True(t, ok)
}
