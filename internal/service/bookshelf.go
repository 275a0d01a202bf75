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

// BookshelfService manages shelf lifecycle and contents. Membership changes
// go through CircleService; this service handles the owner-facing side:
// creating shelves, editing metadata, and adding or removing books, which
// fans wrapper changes out to every user in the circle.
type BookshelfService struct {
	store  *store.Store
	sync   *WrapperSynchronizer
	logger *slog.Logger
}

// NewBookshelfService creates a new bookshelf service.
func NewBookshelfService(store *store.Store, sync *WrapperSynchronizer, logger *slog.Logger) *BookshelfService {
	return &BookshelfService{
		store:  store,
		sync:   sync,
		logger: logger,
	}
}

// CreateBookshelfParams are the caller-supplied fields for a new shelf.
type CreateBookshelfParams struct {
	OwnerID     string
	Title       string
	Description string
	Visibility  domain.Visibility
}

// CreateBookshelf creates an empty shelf for the owner.
// Visibility defaults to private when unset.
func (s *BookshelfService) CreateBookshelf(ctx context.Context, params CreateBookshelfParams) (*domain.Bookshelf, error) {
	if params.OwnerID == "" {
		return nil, ErrOwnerIDRequired
	}
	if params.Title == "" {
		return nil, domainerrors.Validation("Bookshelf title cannot be empty")
	}

	exists, err := s.store.UserExists(ctx, params.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("check owner exists: %w", err)
	}
	if !exists {
		return nil, ErrOwnerMissing
	}

	visibility := params.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, domainerrors.Validation("Invalid visibility value")
	}

	now := time.Now()
	shelf := &domain.Bookshelf{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          id.MustGenerate("shelf"),
		OwnerID:     params.OwnerID,
		Title:       params.Title,
		Description: params.Description,
		Visibility:  visibility,
	}

	if err := s.store.CreateBookshelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("create bookshelf: %w", err)
	}

	s.logger.Info("bookshelf created",
		"bookshelf_id", shelf.ID,
		"owner_id", shelf.OwnerID,
		"visibility", string(shelf.Visibility),
	)
	return shelf, nil
}

// GetBookshelf returns the shelf if the requesting user may see it: the
// owner, a circle member, or anyone for public shelves.
func (s *BookshelfService) GetBookshelf(ctx context.Context, bookshelfID, requesterID string) (*domain.Bookshelf, error) {
	shelf, err := s.loadShelf(ctx, bookshelfID)
	if err != nil {
		return nil, err
	}

	if !shelf.HasAccess(requesterID) {
		return nil, domainerrors.Forbidden("User does not have access to this bookshelf")
	}
	return shelf, nil
}

// ListBookshelves returns the shelves a user owns plus those where the user
// is a circle member, owned first.
func (s *BookshelfService) ListBookshelves(ctx context.Context, userID string) ([]*domain.Bookshelf, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	owned, err := s.store.ListBookshelvesByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned bookshelves: %w", err)
	}

	member, err := s.store.ListBookshelvesForMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list member bookshelves: %w", err)
	}

	return append(owned, member...), nil
}

// ListPublicBookshelves returns every publicly visible shelf.
func (s *BookshelfService) ListPublicBookshelves(ctx context.Context) ([]*domain.Bookshelf, error) {
	return s.store.ListPublicBookshelves(ctx)
}

// UpdateBookshelfParams are the editable metadata fields. Nil pointers leave
// the current value untouched.
type UpdateBookshelfParams struct {
	Title       *string
	Description *string
	Visibility  *domain.Visibility
}

// UpdateBookshelf edits shelf metadata. Owner-gated.
func (s *BookshelfService) UpdateBookshelf(ctx context.Context, bookshelfID, ownerID string, params UpdateBookshelfParams) (*domain.Bookshelf, error) {
	shelf, err := s.loadOwnedShelf(ctx, bookshelfID, ownerID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if *params.Title == "" {
			return nil, domainerrors.Validation("Bookshelf title cannot be empty")
		}
		shelf.Title = *params.Title
	}
	if params.Description != nil {
		shelf.Description = *params.Description
	}
	if params.Visibility != nil {
		if !params.Visibility.Valid() {
			return nil, domainerrors.Validation("Invalid visibility value")
		}
		shelf.Visibility = *params.Visibility
	}
	shelf.UpdatedAt = time.Now()

	if err := s.store.UpdateBookshelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("update bookshelf: %w", err)
	}
	return shelf, nil
}

// DeleteBookshelf removes the shelf and tears down the wrappers its books
// created for everyone in the circle. Owner-gated. Wrapper teardown runs per
// user so one failure reports which member was left partially cleaned.
func (s *BookshelfService) DeleteBookshelf(ctx context.Context, bookshelfID, ownerID string) error {
	shelf, err := s.loadOwnedShelf(ctx, bookshelfID, ownerID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBookshelf(ctx, bookshelfID); err != nil {
		return fmt.Errorf("delete bookshelf: %w", err)
	}

	for _, memberID := range shelf.CircleIDs() {
		if err := s.sync.RemoveWrappersForUser(ctx, memberID, shelf.BookIDs); err != nil {
			s.logger.Error("bookshelf deleted but wrapper teardown failed",
				"bookshelf_id", bookshelfID,
				"user_id", memberID,
				"error", err,
			)
			return fmt.Errorf("bookshelf deleted but wrapper teardown failed for user %s: %w", memberID, err)
		}
	}

	s.logger.Info("bookshelf deleted",
		"bookshelf_id", bookshelfID,
		"owner_id", ownerID,
		"book_count", len(shelf.BookIDs),
		"member_count", len(shelf.MemberIDs),
	)
	return nil
}

// AddBook puts a catalog book on the shelf and creates a wrapper for every
// circle user (owner included). Owner-gated; the book must exist in the
// catalog. Adding a book already on the shelf is a conflict.
func (s *BookshelfService) AddBook(ctx context.Context, bookshelfID, ownerID, bookID string) (*domain.Bookshelf, error) {
	if bookID == "" {
		return nil, domainerrors.Validation("Book id cannot be null")
	}

	shelf, err := s.loadOwnedShelf(ctx, bookshelfID, ownerID)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.BookExists(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return nil, domainerrors.NotFound("Book not found")
	}

	if !shelf.AddBook(bookID) {
		return nil, domainerrors.Conflict("Book already on bookshelf")
	}

	if err := s.store.UpdateBookshelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("persist book addition: %w", err)
	}

	if err := s.sync.AddWrappersForBook(ctx, bookID, shelf.CircleIDs()); err != nil {
		s.logger.Error("book added but wrapper sync failed",
			"bookshelf_id", bookshelfID,
			"book_id", bookID,
			"error", err,
		)
		return shelf, fmt.Errorf("book added but wrapper sync failed: %w", err)
	}

	s.logger.Info("book added to bookshelf",
		"bookshelf_id", bookshelfID,
		"book_id", bookID,
		"book_count", len(shelf.BookIDs),
	)
	return shelf, nil
}

// RemoveBook takes a book off the shelf and deletes the circle's wrappers for
// it. Owner-gated.
func (s *BookshelfService) RemoveBook(ctx context.Context, bookshelfID, ownerID, bookID string) (*domain.Bookshelf, error) {
	if bookID == "" {
		return nil, domainerrors.Validation("Book id cannot be null")
	}

	shelf, err := s.loadOwnedShelf(ctx, bookshelfID, ownerID)
	if err != nil {
		return nil, err
	}

	if !shelf.RemoveBook(bookID) {
		return nil, domainerrors.NotFound("Book not on bookshelf")
	}

	if err := s.store.UpdateBookshelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("persist book removal: %w", err)
	}

	if err := s.sync.RemoveWrappersForBook(ctx, bookID, shelf.CircleIDs()); err != nil {
		s.logger.Error("book removed but wrapper sync failed",
			"bookshelf_id", bookshelfID,
			"book_id", bookID,
			"error", err,
		)
		return shelf, fmt.Errorf("book removed but wrapper sync failed: %w", err)
	}

	s.logger.Info("book removed from bookshelf",
		"bookshelf_id", bookshelfID,
		"book_id", bookID,
		"book_count", len(shelf.BookIDs),
	)
	return shelf, nil
}

func (s *BookshelfService) loadShelf(ctx context.Context, bookshelfID string) (*domain.Bookshelf, error) {
	if bookshelfID == "" {
		return nil, ErrBookshelfIDRequired
	}

	shelf, err := s.store.GetBookshelf(ctx, bookshelfID)
	if err != nil {
		if errors.Is(err, store.ErrBookshelfNotFound) {
			return nil, ErrBookshelfMissing
		}
		return nil, fmt.Errorf("load bookshelf: %w", err)
	}
	return shelf, nil
}

func (s *BookshelfService) loadOwnedShelf(ctx context.Context, bookshelfID, ownerID string) (*domain.Bookshelf, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}

	shelf, err := s.loadShelf(ctx, bookshelfID)
	if err != nil {
		return nil, err
	}
	if !shelf.IsOwner(ownerID) {
		return nil, ErrNotBookshelfOwner
	}
	return shelf, nil
}
