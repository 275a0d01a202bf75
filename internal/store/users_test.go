package store

import (
	"context"
	"testing"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newStoredUser(t, s, "user-1", "reader@example.com")

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", got.Email)

	exists, err := s.UserExists(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	newStoredUser(t, s, "user-1", "reader@example.com")

	err := s.CreateUser(context.Background(), &domain.User{ID: "user-2", Email: "Reader@Example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newStoredUser(t, s, "user-1", "Reader@Example.com")

	got, err := s.GetUserByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "user-missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserRebuildsEmailIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newStoredUser(t, s, "user-1", "old@example.com")

	user.Email = "new@example.com"
	require.NoError(t, s.UpdateUser(ctx, user))

	_, err := s.GetUserByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	got, err := s.GetUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newStoredBook(t, s, "book-1", "Dune")

	got, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	err = s.CreateBook(ctx, &domain.Book{ID: "book-1"})
	assert.ErrorIs(t, err, ErrDuplicateBook)
}

func TestGetBooksByIDsSkipsMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newStoredBook(t, s, "book-1", "Dune")

	books, err := s.GetBooksByIDs(ctx, []string{"book-1", "book-gone"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "book-1", books[0].ID)
}
