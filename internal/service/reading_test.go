package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	domainerrors "github.com/readcircle/readcircle-server/internal/errors"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReadingService(t *testing.T) (*ReadingService, *store.Store) {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReadingService(s, logger), s
}

func seedWrapper(t *testing.T, s *store.Store, bookID, userID string) {
	t.Helper()
	require.NoError(t, s.CreateBookWrapper(context.Background(), domain.NewBookWrapper(bookID, userID)))
}

func TestGetReadingState(t *testing.T) {
	svc, s := newTestReadingService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")
	seedBook(t, s, "book-1")
	seedWrapper(t, s, "book-1", "reader-1")

	wrapper, err := svc.GetReadingState(ctx, "book-1", "reader-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingStatusUnset, wrapper.Status)
	assert.Zero(t, wrapper.CurrentPage)

	_, err = svc.GetReadingState(ctx, "book-gone", "reader-1")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUpdateReadingState(t *testing.T) {
	svc, s := newTestReadingService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")
	seedBook(t, s, "book-1") // 200 pages
	seedWrapper(t, s, "book-1", "reader-1")

	status := domain.ReadingStatusReading
	page := 42
	wrapper, err := svc.UpdateReadingState(ctx, "book-1", "reader-1", UpdateReadingStateParams{
		Status:      &status,
		CurrentPage: &page,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingStatusReading, wrapper.Status)
	assert.Equal(t, 42, wrapper.CurrentPage)

	// Nil fields leave the current values untouched.
	wrapper, err = svc.UpdateReadingState(ctx, "book-1", "reader-1", UpdateReadingStateParams{})
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingStatusReading, wrapper.Status)
	assert.Equal(t, 42, wrapper.CurrentPage)
}

func TestUpdateReadingStateClampsPage(t *testing.T) {
	svc, s := newTestReadingService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")
	seedBook(t, s, "book-1") // 200 pages
	seedWrapper(t, s, "book-1", "reader-1")

	page := 9999
	wrapper, err := svc.UpdateReadingState(ctx, "book-1", "reader-1", UpdateReadingStateParams{CurrentPage: &page})
	require.NoError(t, err)
	assert.Equal(t, 200, wrapper.CurrentPage)

	negative := -1
	_, err = svc.UpdateReadingState(ctx, "book-1", "reader-1", UpdateReadingStateParams{CurrentPage: &negative})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateReadingStateReadSnapsToLastPage(t *testing.T) {
	svc, s := newTestReadingService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")
	seedBook(t, s, "book-1") // 200 pages
	seedWrapper(t, s, "book-1", "reader-1")

	status := domain.ReadingStatusRead
	wrapper, err := svc.UpdateReadingState(ctx, "book-1", "reader-1", UpdateReadingStateParams{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 200, wrapper.CurrentPage)
}

func TestUpdateReadingStateUnknownPageCount(t *testing.T) {
	svc, s := newTestReadingService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")
	now := time.Now()
	require.NoError(t, s.CreateBook(ctx, &domain.Book{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        "book-nopages",
		Title:     "Untracked",
		Author:    "Author",
	}))
	seedWrapper(t, s, "book-nopages", "reader-1")

	// Without a page count there is nothing to clamp or snap to.
	status := domain.ReadingStatusRead
	page := 42
	wrapper, err := svc.UpdateReadingState(ctx, "book-nopages", "reader-1", UpdateReadingStateParams{
		Status:      &status,
		CurrentPage: &page,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, wrapper.CurrentPage)
}

func TestUpdateReadingStateInvalidStatus(t *testing.T) {
	svc, s := newTestReadingService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")
	seedBook(t, s, "book-1")
	seedWrapper(t, s, "book-1", "reader-1")

	status := domain.ReadingStatus("devoured")
	_, err := svc.UpdateReadingState(ctx, "book-1", "reader-1", UpdateReadingStateParams{Status: &status})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestListReadingStates(t *testing.T) {
	svc, s := newTestReadingService(t)
	ctx := context.Background()

	seedUser(t, s, "reader-1")
	seedBook(t, s, "book-1")
	seedBook(t, s, "book-2")
	seedWrapper(t, s, "book-1", "reader-1")
	seedWrapper(t, s, "book-2", "reader-1")

	wrappers, err := svc.ListReadingStates(ctx, "reader-1")
	require.NoError(t, err)
	assert.Len(t, wrappers, 2)

	_, err = svc.ListReadingStates(ctx, "")
	assert.ErrorIs(t, err, ErrUserIDRequired)
}
