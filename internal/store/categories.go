package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/readcircle/readcircle-server/internal/domain"
)

// Key prefixes for category storage.
const (
	categoryPrefix     = "category:"
	categoriesOwnerIdx = "idx:categories:owner:" // idx:categories:owner:{ownerID}:{categoryID}
)

// CreateCategory creates a new category with its owner index.
func (s *Store) CreateCategory(_ context.Context, category *domain.Category) error {
	key := []byte(categoryPrefix + category.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check category exists: %w", err)
	}
	if exists {
		return ErrDuplicateCategory
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalValue(category)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		ownerKey := fmt.Appendf(nil, "%s%s:%s", categoriesOwnerIdx, category.OwnerID, category.ID)
		return txn.Set(ownerKey, []byte{})
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("category created", "id", category.ID, "owner_id", category.OwnerID, "name", category.Name)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := s.get([]byte(categoryPrefix+id), &category); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category.
func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if _, err := s.GetCategory(ctx, category.ID); err != nil {
		return err
	}

	if err := s.set([]byte(categoryPrefix+category.ID), category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("category updated", "id", category.ID)
	}
	return nil
}

// DeleteCategory deletes a category and its owner index.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(categoryPrefix + id)); err != nil {
			return err
		}

		ownerKey := fmt.Appendf(nil, "%s%s:%s", categoriesOwnerIdx, category.OwnerID, id)
		if err := txn.Delete(ownerKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("category deleted", "id", id)
	}
	return nil
}

// ListCategoriesByOwner returns all categories owned by a user.
func (s *Store) ListCategoriesByOwner(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", categoriesOwnerIdx, ownerID)
	categoryIDs, err := s.scanIndexSuffixes(prefix)
	if err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		category, err := s.GetCategory(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get category from index", "category_id", id, "error", err)
			}
			continue
		}
		categories = append(categories, category)
	}

	return categories, nil
}
