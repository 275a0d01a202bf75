package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	domainerrors "github.com/readcircle/readcircle-server/internal/errors"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBookshelfService(t *testing.T) (*BookshelfService, *CircleService, *store.Store) {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sync := NewWrapperSynchronizer(s, logger)
	return NewBookshelfService(s, sync, logger), NewCircleService(s, sync, logger), s
}

func TestCreateBookshelf(t *testing.T) {
	svc, _, s := newTestBookshelfService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")

	shelf, err := svc.CreateBookshelf(ctx, CreateBookshelfParams{
		OwnerID: "owner-1",
		Title:   "Sci-Fi Favorites",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, shelf.ID)
	assert.Equal(t, domain.VisibilityPrivate, shelf.Visibility)
	assert.Zero(t, shelf.Version)

	_, err = svc.CreateBookshelf(ctx, CreateBookshelfParams{OwnerID: "owner-1"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.CreateBookshelf(ctx, CreateBookshelfParams{OwnerID: "ghost", Title: "x"})
	assert.ErrorIs(t, err, ErrOwnerMissing)
}

func TestGetBookshelfVisibility(t *testing.T) {
	svc, _, s := newTestBookshelfService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "stranger")
	seedBookshelf(t, s, "shelf-1", "owner-1")

	_, err := svc.GetBookshelf(ctx, "shelf-1", "owner-1")
	require.NoError(t, err)

	_, err = svc.GetBookshelf(ctx, "shelf-1", "stranger")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Public shelves are readable by anyone.
	visibility := domain.VisibilityPublic
	_, err = svc.UpdateBookshelf(ctx, "shelf-1", "owner-1", UpdateBookshelfParams{Visibility: &visibility})
	require.NoError(t, err)

	_, err = svc.GetBookshelf(ctx, "shelf-1", "stranger")
	assert.NoError(t, err)
}

func TestAddBookFansOutWrappers(t *testing.T) {
	svc, circles, s := newTestBookshelfService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "member-1")
	seedBook(t, s, "book-1")
	seedBookshelf(t, s, "shelf-1", "owner-1")

	_, err := circles.AddMember(ctx, "shelf-1", "owner-1", "member-1")
	require.NoError(t, err)

	shelf, err := svc.AddBook(ctx, "shelf-1", "owner-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"book-1"}, shelf.BookIDs)

	// Both the owner and the member get a wrapper.
	for _, userID := range []string{"owner-1", "member-1"} {
		exists, err := s.WrapperExists(ctx, "book-1", userID)
		require.NoError(t, err)
		assert.True(t, exists, "wrapper missing for %s", userID)
	}
}

func TestAddBookNewestFirst(t *testing.T) {
	svc, _, s := newTestBookshelfService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedBook(t, s, "book-1")
	seedBook(t, s, "book-2")
	seedBookshelf(t, s, "shelf-1", "owner-1")

	_, err := svc.AddBook(ctx, "shelf-1", "owner-1", "book-1")
	require.NoError(t, err)
	shelf, err := svc.AddBook(ctx, "shelf-1", "owner-1", "book-2")
	require.NoError(t, err)

	assert.Equal(t, []string{"book-2", "book-1"}, shelf.BookIDs)
}

func TestAddBookErrors(t *testing.T) {
	svc, _, s := newTestBookshelfService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "intruder")
	seedBook(t, s, "book-1")
	seedBookshelf(t, s, "shelf-1", "owner-1")

	_, err := svc.AddBook(ctx, "shelf-1", "intruder", "book-1")
	assert.ErrorIs(t, err, ErrNotBookshelfOwner)

	_, err = svc.AddBook(ctx, "shelf-1", "owner-1", "book-gone")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = svc.AddBook(ctx, "shelf-1", "owner-1", "book-1")
	require.NoError(t, err)
	_, err = svc.AddBook(ctx, "shelf-1", "owner-1", "book-1")
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestRemoveBookTearsDownWrappers(t *testing.T) {
	svc, circles, s := newTestBookshelfService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "member-1")
	seedBook(t, s, "book-1")
	seedBookshelf(t, s, "shelf-1", "owner-1")

	_, err := circles.AddMember(ctx, "shelf-1", "owner-1", "member-1")
	require.NoError(t, err)
	_, err = svc.AddBook(ctx, "shelf-1", "owner-1", "book-1")
	require.NoError(t, err)

	shelf, err := svc.RemoveBook(ctx, "shelf-1", "owner-1", "book-1")
	require.NoError(t, err)
	assert.Empty(t, shelf.BookIDs)

	for _, userID := range []string{"owner-1", "member-1"} {
		exists, err := s.WrapperExists(ctx, "book-1", userID)
		require.NoError(t, err)
		assert.False(t, exists, "wrapper should be gone for %s", userID)
	}
}

func TestDeleteBookshelfCascade(t *testing.T) {
	svc, circles, s := newTestBookshelfService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "member-1")
	seedBook(t, s, "book-1")
	seedBookshelf(t, s, "shelf-1", "owner-1")

	_, err := circles.AddMember(ctx, "shelf-1", "owner-1", "member-1")
	require.NoError(t, err)
	_, err = svc.AddBook(ctx, "shelf-1", "owner-1", "book-1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBookshelf(ctx, "shelf-1", "owner-1"))

	_, err = s.GetBookshelf(ctx, "shelf-1")
	assert.ErrorIs(t, err, store.ErrBookshelfNotFound)

	for _, userID := range []string{"owner-1", "member-1"} {
		exists, err := s.WrapperExists(ctx, "book-1", userID)
		require.NoError(t, err)
		assert.False(t, exists, "wrapper should be gone for %s", userID)
	}
}

func TestListBookshelves(t *testing.T) {
	svc, circles, s := newTestBookshelfService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "member-1")
	seedBookshelf(t, s, "shelf-1", "owner-1")
	seedBookshelf(t, s, "shelf-2", "member-1")

	_, err := circles.AddMember(ctx, "shelf-1", "owner-1", "member-1")
	require.NoError(t, err)

	shelves, err := svc.ListBookshelves(ctx, "member-1")
	require.NoError(t, err)
	require.Len(t, shelves, 2)

	ids := []string{shelves[0].ID, shelves[1].ID}
	assert.Contains(t, ids, "shelf-1")
	assert.Contains(t, ids, "shelf-2")
}
