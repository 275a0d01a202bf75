package store

import (
	"context"
	"testing"
	"time"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a Badger store in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func newStoredUser(t *testing.T, s *Store, id, email string) *domain.User {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          id,
		Email:       email,
		DisplayName: "Test User",
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func newStoredBook(t *testing.T, s *Store, id, title string) *domain.Book {
	t.Helper()

	now := time.Now()
	book := &domain.Book{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id,
		Title:     title,
		Author:    "Author",
		Genre:     "fiction",
		PageCount: 320,
	}
	require.NoError(t, s.CreateBook(context.Background(), book))
	return book
}

func newStoredBookshelf(t *testing.T, s *Store, id, ownerID string, bookIDs ...string) *domain.Bookshelf {
	t.Helper()

	now := time.Now()
	shelf := &domain.Bookshelf{
		CreatedAt:  now,
		UpdatedAt:  now,
		ID:         id,
		OwnerID:    ownerID,
		Title:      "Test Shelf",
		Visibility: domain.VisibilityPrivate,
		BookIDs:    bookIDs,
	}
	require.NoError(t, s.CreateBookshelf(context.Background(), shelf))
	return shelf
}
