package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/store"
)

// ReadingInsights summarizes one user's reading activity across every book
// they can reach through their shelves.
type ReadingInsights struct {
	TotalBooks    int            `json:"total_books"`
	BooksRead     int            `json:"books_read"`
	BooksReading  int            `json:"books_reading"`
	BooksWanted   int            `json:"books_wanted"`
	PagesRead     int            `json:"pages_read"`
	GenreCounts   map[string]int `json:"genre_counts"`
	FavoriteGenre string         `json:"favorite_genre,omitempty"`
}

// InsightService aggregates wrapper and catalog data into per-user insights.
type InsightService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewInsightService creates a new insight service.
func NewInsightService(store *store.Store, logger *slog.Logger) *InsightService {
	return &InsightService{
		store:  store,
		logger: logger,
	}
}

// GetInsights computes reading insights for a user. Completed books count
// their full page count; in-progress books count the current page. Wrappers
// whose catalog entry has vanished contribute to totals but not to pages or
// genres.
func (s *InsightService) GetInsights(ctx context.Context, userID string) (*ReadingInsights, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	wrappers, err := s.store.ListWrappersForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wrappers: %w", err)
	}

	bookIDs := make([]string, 0, len(wrappers))
	for _, w := range wrappers {
		bookIDs = append(bookIDs, w.BookID)
	}
	books, err := s.store.GetBooksByIDs(ctx, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	byID := make(map[string]*domain.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	insights := &ReadingInsights{
		TotalBooks:  len(wrappers),
		GenreCounts: make(map[string]int),
	}

	for _, w := range wrappers {
		switch w.Status {
		case domain.ReadingStatusRead:
			insights.BooksRead++
		case domain.ReadingStatusReading:
			insights.BooksReading++
		case domain.ReadingStatusWantToRead:
			insights.BooksWanted++
		}

		book, ok := byID[w.BookID]
		if !ok {
			continue
		}

		if w.Status == domain.ReadingStatusRead {
			insights.PagesRead += book.PageCount
		} else {
			insights.PagesRead += w.CurrentPage
		}

		if book.Genre != "" && w.Status != domain.ReadingStatusUnset {
			insights.GenreCounts[book.Genre]++
		}
	}

	best := 0
	for genre, count := range insights.GenreCounts {
		if count > best || (count == best && genre < insights.FavoriteGenre) {
			best = count
			insights.FavoriteGenre = genre
		}
	}

	return insights, nil
}
