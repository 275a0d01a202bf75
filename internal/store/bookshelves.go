package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/readcircle/readcircle-server/internal/domain"
)

// Key prefixes for bookshelf storage.
const (
	bookshelfPrefix        = "bookshelf:"
	bookshelvesOwnerPrefix = "idx:bookshelves:owner:"  // idx:bookshelves:owner:{ownerID}:{shelfID}
	bookshelvesMemberIdx   = "idx:bookshelves:member:" // idx:bookshelves:member:{userID}:{shelfID}
)

// CreateBookshelf creates a new bookshelf with its owner index.
// The aggregate starts at version 0; every successful update increments it.
func (s *Store) CreateBookshelf(_ context.Context, shelf *domain.Bookshelf) error {
	key := []byte(bookshelfPrefix + shelf.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check bookshelf exists: %w", err)
	}
	if exists {
		return ErrDuplicateBookshelf
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(shelf)
		if err != nil {
			return fmt.Errorf("marshal bookshelf: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		ownerKey := fmt.Appendf(nil, "%s%s:%s", bookshelvesOwnerPrefix, shelf.OwnerID, shelf.ID)
		if err := txn.Set(ownerKey, []byte{}); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}

		for _, memberID := range shelf.MemberIDs {
			memberKey := fmt.Appendf(nil, "%s%s:%s", bookshelvesMemberIdx, memberID, shelf.ID)
			if err := txn.Set(memberKey, []byte{}); err != nil {
				return fmt.Errorf("set member index: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create bookshelf: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("bookshelf created",
			"id", shelf.ID,
			"title", shelf.Title,
			"owner_id", shelf.OwnerID,
			"book_count", len(shelf.BookIDs),
		)
	}
	return nil
}

// GetBookshelf retrieves a bookshelf by ID.
func (s *Store) GetBookshelf(_ context.Context, id string) (*domain.Bookshelf, error) {
	var shelf domain.Bookshelf
	if err := s.get([]byte(bookshelfPrefix+id), &shelf); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookshelfNotFound
		}
		return nil, fmt.Errorf("get bookshelf: %w", err)
	}
	return &shelf, nil
}

// BookshelfExists checks whether a bookshelf ID is present.
func (s *Store) BookshelfExists(_ context.Context, id string) (bool, error) {
	return s.exists([]byte(bookshelfPrefix + id))
}

// UpdateBookshelf persists a modified bookshelf aggregate.
//
// The caller's shelf must carry the Version it was loaded with; the update is
// rejected with ErrVersionConflict when the stored aggregate has moved on.
// The stored version check, the increment, the write, and the member-index
// maintenance all happen inside a single Badger transaction, so a racing
// writer can never silently overwrite this one's change. On success the
// caller's shelf is stamped with the new version.
func (s *Store) UpdateBookshelf(_ context.Context, shelf *domain.Bookshelf) error {
	key := []byte(bookshelfPrefix + shelf.ID)

	var newVersion uint64
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrBookshelfNotFound
			}
			return err
		}

		var current domain.Bookshelf
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &current)
		}); err != nil {
			return fmt.Errorf("unmarshal stored bookshelf: %w", err)
		}

		if current.Version != shelf.Version {
			return ErrVersionConflict
		}

		updated := *shelf
		updated.Version = current.Version + 1
		newVersion = updated.Version

		data, err := json.Marshal(&updated)
		if err != nil {
			return fmt.Errorf("marshal bookshelf: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set bookshelf: %w", err)
		}

		// Maintain the member index by diffing old vs new member sets.
		oldMembers := make(map[string]bool, len(current.MemberIDs))
		for _, id := range current.MemberIDs {
			oldMembers[id] = true
		}
		newMembers := make(map[string]bool, len(shelf.MemberIDs))
		for _, id := range shelf.MemberIDs {
			newMembers[id] = true
		}

		for id := range newMembers {
			if !oldMembers[id] {
				memberKey := fmt.Appendf(nil, "%s%s:%s", bookshelvesMemberIdx, id, shelf.ID)
				if err := txn.Set(memberKey, []byte{}); err != nil {
					return fmt.Errorf("set member index: %w", err)
				}
			}
		}
		for id := range oldMembers {
			if !newMembers[id] {
				memberKey := fmt.Appendf(nil, "%s%s:%s", bookshelvesMemberIdx, id, shelf.ID)
				if err := txn.Delete(memberKey); err != nil {
					return fmt.Errorf("delete member index: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		var storeErr *Error
		if errors.As(err, &storeErr) {
			return err
		}
		return fmt.Errorf("update bookshelf: %w", err)
	}

	shelf.Version = newVersion

	if s.logger != nil {
		s.logger.Info("bookshelf updated",
			"id", shelf.ID,
			"version", shelf.Version,
		)
	}
	return nil
}

// DeleteBookshelf deletes a bookshelf and all its indexes.
func (s *Store) DeleteBookshelf(ctx context.Context, id string) error {
	shelf, err := s.GetBookshelf(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(bookshelfPrefix + id)); err != nil {
			return fmt.Errorf("delete bookshelf: %w", err)
		}

		ownerKey := fmt.Appendf(nil, "%s%s:%s", bookshelvesOwnerPrefix, shelf.OwnerID, id)
		if err := txn.Delete(ownerKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete owner index: %w", err)
		}

		for _, memberID := range shelf.MemberIDs {
			memberKey := fmt.Appendf(nil, "%s%s:%s", bookshelvesMemberIdx, memberID, id)
			if err := txn.Delete(memberKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete member index: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("delete bookshelf: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("bookshelf deleted", "id", id)
	}
	return nil
}

// ListBookshelvesByOwner returns all bookshelves owned by a user.
func (s *Store) ListBookshelvesByOwner(ctx context.Context, ownerID string) ([]*domain.Bookshelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", bookshelvesOwnerPrefix, ownerID)
	shelfIDs, err := s.scanIndexSuffixes(prefix)
	if err != nil {
		return nil, err
	}

	return s.loadBookshelves(ctx, shelfIDs), nil
}

// ListBookshelvesForMember returns all bookshelves where the user is a
// confirmed circle member (not the owner).
func (s *Store) ListBookshelvesForMember(ctx context.Context, userID string) ([]*domain.Bookshelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", bookshelvesMemberIdx, userID)
	shelfIDs, err := s.scanIndexSuffixes(prefix)
	if err != nil {
		return nil, err
	}

	return s.loadBookshelves(ctx, shelfIDs), nil
}

// ListPublicBookshelves returns all bookshelves with public visibility.
func (s *Store) ListPublicBookshelves(ctx context.Context) ([]*domain.Bookshelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var shelves []*domain.Bookshelf

	prefix := []byte(bookshelfPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var shelf domain.Bookshelf
				if err := json.Unmarshal(val, &shelf); err != nil {
					return err
				}
				if shelf.Visibility == domain.VisibilityPublic {
					shelves = append(shelves, &shelf)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list public bookshelves: %w", err)
	}

	return shelves, nil
}

// loadBookshelves loads shelves by ID, skipping stale index entries.
func (s *Store) loadBookshelves(ctx context.Context, ids []string) []*domain.Bookshelf {
	shelves := make([]*domain.Bookshelf, 0, len(ids))
	for _, id := range ids {
		shelf, err := s.GetBookshelf(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get bookshelf from index", "bookshelf_id", id, "error", err)
			}
			continue
		}
		shelves = append(shelves, shelf)
	}
	return shelves
}
