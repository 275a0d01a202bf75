package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/readcircle/readcircle-server/internal/domain"
)

// Key prefixes for book-wrapper storage.
const (
	wrapperPrefix   = "wrapper:"           // wrapper:{bookID}:{userID}
	wrappersUserIdx = "idx:wrappers:user:" // idx:wrappers:user:{userID}:{bookID}
)

// wrapperStorageKey builds the primary key for a wrapper.
func wrapperStorageKey(bookID, userID string) []byte {
	return fmt.Appendf(nil, "%s%s", wrapperPrefix, domain.WrapperKey(bookID, userID))
}

// CreateBookWrapper stores a new wrapper with its user index.
func (s *Store) CreateBookWrapper(_ context.Context, wrapper *domain.BookWrapper) error {
	key := wrapperStorageKey(wrapper.BookID, wrapper.UserID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check wrapper exists: %w", err)
	}
	if exists {
		return ErrDuplicateWrapper
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(wrapper)
		if err != nil {
			return fmt.Errorf("marshal wrapper: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		userKey := fmt.Appendf(nil, "%s%s:%s", wrappersUserIdx, wrapper.UserID, wrapper.BookID)
		return txn.Set(userKey, []byte{})
	})
	if err != nil {
		return fmt.Errorf("create wrapper: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("book wrapper created",
			"book_id", wrapper.BookID,
			"user_id", wrapper.UserID,
		)
	}
	return nil
}

// GetBookWrapper retrieves the wrapper for a (book, user) pair.
func (s *Store) GetBookWrapper(_ context.Context, bookID, userID string) (*domain.BookWrapper, error) {
	var wrapper domain.BookWrapper
	if err := s.get(wrapperStorageKey(bookID, userID), &wrapper); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrWrapperNotFound
		}
		return nil, fmt.Errorf("get wrapper: %w", err)
	}
	return &wrapper, nil
}

// WrapperExists checks whether a wrapper is present for a (book, user) pair.
func (s *Store) WrapperExists(_ context.Context, bookID, userID string) (bool, error) {
	return s.exists(wrapperStorageKey(bookID, userID))
}

// UpdateBookWrapper updates an existing wrapper's reading state.
func (s *Store) UpdateBookWrapper(ctx context.Context, wrapper *domain.BookWrapper) error {
	if _, err := s.GetBookWrapper(ctx, wrapper.BookID, wrapper.UserID); err != nil {
		return err
	}

	if err := s.set(wrapperStorageKey(wrapper.BookID, wrapper.UserID), wrapper); err != nil {
		return fmt.Errorf("update wrapper: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("book wrapper updated",
			"book_id", wrapper.BookID,
			"user_id", wrapper.UserID,
			"status", string(wrapper.Status),
			"current_page", wrapper.CurrentPage,
		)
	}
	return nil
}

// DeleteBookWrapper removes the wrapper for a (book, user) pair along with
// its user index. Fails with ErrWrapperNotFound if absent.
func (s *Store) DeleteBookWrapper(_ context.Context, bookID, userID string) error {
	key := wrapperStorageKey(bookID, userID)

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrWrapperNotFound
			}
			return err
		}

		if err := txn.Delete(key); err != nil {
			return err
		}

		userKey := fmt.Appendf(nil, "%s%s:%s", wrappersUserIdx, userID, bookID)
		if err := txn.Delete(userKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWrapperNotFound) {
			return ErrWrapperNotFound
		}
		return fmt.Errorf("delete wrapper: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("book wrapper deleted", "book_id", bookID, "user_id", userID)
	}
	return nil
}

// ListWrappersForUser returns every wrapper belonging to a user.
func (s *Store) ListWrappersForUser(ctx context.Context, userID string) ([]*domain.BookWrapper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", wrappersUserIdx, userID)
	bookIDs, err := s.scanIndexSuffixes(prefix)
	if err != nil {
		return nil, err
	}

	wrappers := make([]*domain.BookWrapper, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		wrapper, err := s.GetBookWrapper(ctx, bookID, userID)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get wrapper from index", "book_id", bookID, "user_id", userID, "error", err)
			}
			continue
		}
		wrappers = append(wrappers, wrapper)
	}

	return wrappers, nil
}
