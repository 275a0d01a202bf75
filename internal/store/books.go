package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/readcircle/readcircle-server/internal/domain"
)

// Key prefix for catalog book storage.
const bookPrefix = "book:"

// CreateBook creates a new catalog book.
func (s *Store) CreateBook(_ context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrDuplicateBook
	}

	if err := s.set(key, book); err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book created", "id", book.ID, "title", book.Title)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(_ context.Context, id string) (*domain.Book, error) {
	var book domain.Book
	if err := s.get([]byte(bookPrefix+id), &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// BookExists checks whether a book ID is present in the catalog.
func (s *Store) BookExists(_ context.Context, id string) (bool, error) {
	return s.exists([]byte(bookPrefix + id))
}

// UpdateBook updates an existing book.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if _, err := s.GetBook(ctx, book.ID); err != nil {
		return err
	}

	if err := s.set([]byte(bookPrefix+book.ID), book); err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book updated", "id", book.ID)
	}
	return nil
}

// DeleteBook removes a book from the catalog.
// Wrapper and shelf cleanup is the caller's responsibility.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if _, err := s.GetBook(ctx, id); err != nil {
		return err
	}

	if err := s.delete([]byte(bookPrefix + id)); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book deleted", "id", id)
	}
	return nil
}

// GetBooksByIDs loads the given books, skipping IDs that no longer exist.
func (s *Store) GetBooksByIDs(ctx context.Context, ids []string) ([]*domain.Book, error) {
	books := make([]*domain.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.GetBook(ctx, id)
		if err != nil {
			if errors.Is(err, ErrBookNotFound) {
				if s.logger != nil {
					s.logger.Warn("book referenced but missing from catalog", "book_id", id)
				}
				continue
			}
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// ListBooks returns all catalog books.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var books []*domain.Book

	prefix := []byte(bookPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return err
				}
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}
