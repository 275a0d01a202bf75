package store

import (
	"context"
	"testing"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetBookWrapper(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	wrapper := domain.NewBookWrapper("book-1", "user-1")
	require.NoError(t, s.CreateBookWrapper(ctx, wrapper))

	got, err := s.GetBookWrapper(ctx, "book-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingStatusUnset, got.Status)
	assert.Zero(t, got.CurrentPage)
}

func TestCreateBookWrapperDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBookWrapper(ctx, domain.NewBookWrapper("book-1", "user-1")))

	err := s.CreateBookWrapper(ctx, domain.NewBookWrapper("book-1", "user-1"))
	assert.ErrorIs(t, err, ErrDuplicateWrapper)
}

func TestWrapperExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exists, err := s.WrapperExists(ctx, "book-1", "user-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.CreateBookWrapper(ctx, domain.NewBookWrapper("book-1", "user-1")))

	exists, err = s.WrapperExists(ctx, "book-1", "user-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdateBookWrapper(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	wrapper := domain.NewBookWrapper("book-1", "user-1")
	require.NoError(t, s.CreateBookWrapper(ctx, wrapper))

	wrapper.Status = domain.ReadingStatusReading
	wrapper.CurrentPage = 42
	require.NoError(t, s.UpdateBookWrapper(ctx, wrapper))

	got, err := s.GetBookWrapper(ctx, "book-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingStatusReading, got.Status)
	assert.Equal(t, 42, got.CurrentPage)
}

func TestDeleteBookWrapper(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBookWrapper(ctx, domain.NewBookWrapper("book-1", "user-1")))
	require.NoError(t, s.DeleteBookWrapper(ctx, "book-1", "user-1"))

	_, err := s.GetBookWrapper(ctx, "book-1", "user-1")
	assert.ErrorIs(t, err, ErrWrapperNotFound)

	// Deleting again reports not found.
	err = s.DeleteBookWrapper(ctx, "book-1", "user-1")
	assert.ErrorIs(t, err, ErrWrapperNotFound)
}

func TestListWrappersForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBookWrapper(ctx, domain.NewBookWrapper("book-1", "user-1")))
	require.NoError(t, s.CreateBookWrapper(ctx, domain.NewBookWrapper("book-2", "user-1")))
	require.NoError(t, s.CreateBookWrapper(ctx, domain.NewBookWrapper("book-1", "user-2")))

	wrappers, err := s.ListWrappersForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, wrappers, 2)

	wrappers, err = s.ListWrappersForUser(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, wrappers, 1)
	assert.Equal(t, "book-1", wrappers[0].BookID)
}
