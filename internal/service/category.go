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

// CategoryService manages personal book groupings. Categories are private to
// their owner and never fan out wrappers; they only reference catalog books.
type CategoryService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store *store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: logger,
	}
}

// CreateCategory creates an empty category for the owner.
func (s *CategoryService) CreateCategory(ctx context.Context, ownerID, name string) (*domain.Category, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}
	if name == "" {
		return nil, domainerrors.Validation("Category name cannot be empty")
	}

	exists, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("check owner exists: %w", err)
	}
	if !exists {
		return nil, ErrOwnerMissing
	}

	now := time.Now()
	category := &domain.Category{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id.MustGenerate("cat"),
		OwnerID:   ownerID,
		Name:      name,
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created", "category_id", category.ID, "owner_id", ownerID)
	return category, nil
}

// GetCategory retrieves a category. Owner-gated.
func (s *CategoryService) GetCategory(ctx context.Context, categoryID, ownerID string) (*domain.Category, error) {
	return s.loadOwnedCategory(ctx, categoryID, ownerID)
}

// ListCategories returns all of the owner's categories.
func (s *CategoryService) ListCategories(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}
	return s.store.ListCategoriesByOwner(ctx, ownerID)
}

// RenameCategory changes a category's name. Owner-gated.
func (s *CategoryService) RenameCategory(ctx context.Context, categoryID, ownerID, name string) (*domain.Category, error) {
	if name == "" {
		return nil, domainerrors.Validation("Category name cannot be empty")
	}

	category, err := s.loadOwnedCategory(ctx, categoryID, ownerID)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.UpdatedAt = time.Now()

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. Owner-gated. Books referenced by the
// category are untouched.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID, ownerID string) error {
	if _, err := s.loadOwnedCategory(ctx, categoryID, ownerID); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.Info("category deleted", "category_id", categoryID, "owner_id", ownerID)
	return nil
}

// AddBook puts a catalog book in the category. Owner-gated; the book must
// exist in the catalog.
func (s *CategoryService) AddBook(ctx context.Context, categoryID, ownerID, bookID string) (*domain.Category, error) {
	if bookID == "" {
		return nil, domainerrors.Validation("Book id cannot be null")
	}

	category, err := s.loadOwnedCategory(ctx, categoryID, ownerID)
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

	if !category.AddBook(bookID) {
		return nil, domainerrors.Conflict("Book already in category")
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("persist category book addition: %w", err)
	}
	return category, nil
}

// RemoveBook takes a book out of the category. Owner-gated.
func (s *CategoryService) RemoveBook(ctx context.Context, categoryID, ownerID, bookID string) (*domain.Category, error) {
	if bookID == "" {
		return nil, domainerrors.Validation("Book id cannot be null")
	}

	category, err := s.loadOwnedCategory(ctx, categoryID, ownerID)
	if err != nil {
		return nil, err
	}

	if !category.RemoveBook(bookID) {
		return nil, domainerrors.NotFound("Book not in category")
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("persist category book removal: %w", err)
	}
	return category, nil
}

func (s *CategoryService) loadOwnedCategory(ctx context.Context, categoryID, ownerID string) (*domain.Category, error) {
	if categoryID == "" {
		return nil, domainerrors.Validation("Category id cannot be null")
	}
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return nil, domainerrors.NotFound("Category not found")
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	if category.OwnerID != ownerID {
		return nil, domainerrors.Forbidden("User does not own this category")
	}
	return category, nil
}
