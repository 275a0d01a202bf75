package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainerrors "github.com/readcircle/readcircle-server/internal/errors"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/store"
)

// ReadingService reads and updates per-user reading state on book wrappers.
// Users can only touch their own wrappers, and a wrapper only exists while
// the user has shelf access to the book, so access control falls out of
// wrapper existence.
type ReadingService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewReadingService creates a new reading service.
func NewReadingService(store *store.Store, logger *slog.Logger) *ReadingService {
	return &ReadingService{
		store:  store,
		logger: logger,
	}
}

// GetReadingState returns the user's wrapper for a book.
func (s *ReadingService) GetReadingState(ctx context.Context, bookID, userID string) (*domain.BookWrapper, error) {
	if bookID == "" {
		return nil, domainerrors.Validation("Book id cannot be null")
	}
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	wrapper, err := s.store.GetBookWrapper(ctx, bookID, userID)
	if err != nil {
		if errors.Is(err, store.ErrWrapperNotFound) {
			return nil, domainerrors.NotFound("No reading state for this book")
		}
		return nil, fmt.Errorf("get reading state: %w", err)
	}
	return wrapper, nil
}

// ListReadingStates returns all of the user's wrappers.
func (s *ReadingService) ListReadingStates(ctx context.Context, userID string) ([]*domain.BookWrapper, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return s.store.ListWrappersForUser(ctx, userID)
}

// UpdateReadingStateParams are the updatable wrapper fields. Nil pointers
// leave the current value untouched.
type UpdateReadingStateParams struct {
	Status      *domain.ReadingStatus
	CurrentPage *int
}

// UpdateReadingState sets the user's status and/or current page for a book.
// The page is clamped to the book's page count; marking a book read snaps the
// page to the last page when the count is known.
func (s *ReadingService) UpdateReadingState(ctx context.Context, bookID, userID string, params UpdateReadingStateParams) (*domain.BookWrapper, error) {
	wrapper, err := s.GetReadingState(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("Book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, domainerrors.Validation("Invalid reading status")
		}
		wrapper.Status = *params.Status
	}
	if params.CurrentPage != nil {
		if *params.CurrentPage < 0 {
			return nil, domainerrors.Validation("Current page cannot be negative")
		}
		wrapper.CurrentPage = *params.CurrentPage
	}

	if book.PageCount > 0 {
		if wrapper.CurrentPage > book.PageCount {
			wrapper.CurrentPage = book.PageCount
		}
		if wrapper.Status == domain.ReadingStatusRead {
			wrapper.CurrentPage = book.PageCount
		}
	}
	wrapper.UpdatedAt = time.Now()

	if err := s.store.UpdateBookWrapper(ctx, wrapper); err != nil {
		return nil, fmt.Errorf("update reading state: %w", err)
	}

	s.logger.Debug("reading state updated",
		"book_id", bookID,
		"user_id", userID,
		"status", string(wrapper.Status),
		"current_page", wrapper.CurrentPage,
	)
	return wrapper, nil
}
