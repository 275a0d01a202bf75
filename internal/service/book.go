package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainerrors "github.com/readcircle/readcircle-server/internal/errors"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/id"
	"github.com/readcircle/readcircle-server/internal/store"
)

// BookService manages the shared book catalog. Catalog entries carry no
// per-user state; reading progress lives on wrappers.
type BookService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		logger: logger,
	}
}

// CreateBookParams are the caller-supplied fields for a new catalog entry.
type CreateBookParams struct {
	Title     string
	Author    string
	Genre     string
	ISBN      string
	PageCount int
}

// CreateBook adds a book to the catalog.
func (s *BookService) CreateBook(ctx context.Context, params CreateBookParams) (*domain.Book, error) {
	if params.Title == "" {
		return nil, domainerrors.Validation("Book title cannot be empty")
	}
	if params.Author == "" {
		return nil, domainerrors.Validation("Book author cannot be empty")
	}
	if params.PageCount < 0 {
		return nil, domainerrors.Validation("Page count cannot be negative")
	}

	now := time.Now()
	book := &domain.Book{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id.MustGenerate("book"),
		Title:     params.Title,
		Author:    params.Author,
		Genre:     params.Genre,
		ISBN:      params.ISBN,
		PageCount: params.PageCount,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// GetBook retrieves a catalog entry by ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	if bookID == "" {
		return nil, domainerrors.Validation("Book id cannot be null")
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("Book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// UpdateBookParams are the editable catalog fields. Nil pointers leave the
// current value untouched.
type UpdateBookParams struct {
	Title     *string
	Author    *string
	Genre     *string
	ISBN      *string
	PageCount *int
}

// UpdateBook edits a catalog entry.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, params UpdateBookParams) (*domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if *params.Title == "" {
			return nil, domainerrors.Validation("Book title cannot be empty")
		}
		book.Title = *params.Title
	}
	if params.Author != nil {
		if *params.Author == "" {
			return nil, domainerrors.Validation("Book author cannot be empty")
		}
		book.Author = *params.Author
	}
	if params.Genre != nil {
		book.Genre = *params.Genre
	}
	if params.ISBN != nil {
		book.ISBN = *params.ISBN
	}
	if params.PageCount != nil {
		if *params.PageCount < 0 {
			return nil, domainerrors.Validation("Page count cannot be negative")
		}
		book.PageCount = *params.PageCount
	}
	book.UpdatedAt = time.Now()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// ListBooks returns the full catalog.
func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx)
}
