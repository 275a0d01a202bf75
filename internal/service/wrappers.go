package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/store"
)

// WrapperSynchronizer keeps per-user reading-state records (BookWrappers)
// consistent with bookshelf membership and contents. It is invoked
// synchronously after a membership or shelf-content mutation persists.
//
// Creation is idempotent: a wrapper that already exists (the user reaches the
// same book through another shelf) is left untouched. Removal tolerates a
// missing wrapper as a no-op, so membership removal never fails over a stale
// derived record.
type WrapperSynchronizer struct {
	store  *store.Store
	logger *slog.Logger
}

// NewWrapperSynchronizer creates a new wrapper synchronizer.
func NewWrapperSynchronizer(store *store.Store, logger *slog.Logger) *WrapperSynchronizer {
	return &WrapperSynchronizer{
		store:  store,
		logger: logger,
	}
}

// AddWrappersForUser creates a wrapper for the user and each given book.
// Wrappers start with status unset and page 0.
func (s *WrapperSynchronizer) AddWrappersForUser(ctx context.Context, userID string, bookIDs []string) error {
	for _, bookID := range bookIDs {
		if err := s.addWrapper(ctx, bookID, userID); err != nil {
			return err
		}
	}
	return nil
}

// RemoveWrappersForUser deletes the wrapper for the user and each given book.
func (s *WrapperSynchronizer) RemoveWrappersForUser(ctx context.Context, userID string, bookIDs []string) error {
	for _, bookID := range bookIDs {
		if err := s.removeWrapper(ctx, bookID, userID); err != nil {
			return err
		}
	}
	return nil
}

// AddWrappersForBook creates a wrapper for each given user and the book.
// Used when a book is added to a shelf the users already belong to.
func (s *WrapperSynchronizer) AddWrappersForBook(ctx context.Context, bookID string, userIDs []string) error {
	for _, userID := range userIDs {
		if err := s.addWrapper(ctx, bookID, userID); err != nil {
			return err
		}
	}
	return nil
}

// RemoveWrappersForBook deletes the wrapper for each given user and the book.
func (s *WrapperSynchronizer) RemoveWrappersForBook(ctx context.Context, bookID string, userIDs []string) error {
	for _, userID := range userIDs {
		if err := s.removeWrapper(ctx, bookID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (s *WrapperSynchronizer) addWrapper(ctx context.Context, bookID, userID string) error {
	err := s.store.CreateBookWrapper(ctx, domain.NewBookWrapper(bookID, userID))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateWrapper) {
			// The user already tracks this book through another shelf.
			return nil
		}
		return fmt.Errorf("create wrapper for book %s user %s: %w", bookID, userID, err)
	}
	return nil
}

func (s *WrapperSynchronizer) removeWrapper(ctx context.Context, bookID, userID string) error {
	err := s.store.DeleteBookWrapper(ctx, bookID, userID)
	if err != nil {
		if errors.Is(err, store.ErrWrapperNotFound) {
			if s.logger != nil {
				s.logger.Warn("wrapper already absent during removal",
					"book_id", bookID,
					"user_id", userID,
				)
			}
			return nil
		}
		return fmt.Errorf("delete wrapper for book %s user %s: %w", bookID, userID, err)
	}
	return nil
}
