// Package service provides the business logic layer for the ReadCircle server.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/readcircle/readcircle-server/internal/store"
)

// CircleService orchestrates bookshelf circle membership: join requests, the
// pending queue, owner-gated accept/reject/add/remove, and the wrapper
// fan-out that keeps each member's reading state in sync with shelf contents.
//
// Every mutating operation follows the same order: validation chain, mutate
// the loaded aggregate, persist it (optimistic version check), synchronize
// wrappers. Wrapper synchronization runs after the membership change has
// committed; when it fails the operation returns both a CircleUpdate with
// WrappersSynced=false and the error, so callers can see the partial state
// instead of guessing.
type CircleService struct {
	store  *store.Store
	sync   *WrapperSynchronizer
	logger *slog.Logger
}

// NewCircleService creates a new circle service.
func NewCircleService(store *store.Store, sync *WrapperSynchronizer, logger *slog.Logger) *CircleService {
	return &CircleService{
		store:  store,
		sync:   sync,
		logger: logger,
	}
}

// CircleUpdate is the result of a mutating circle operation.
type CircleUpdate struct {
	BookshelfID string   `json:"bookshelf_id"`
	MemberIDs   []string `json:"member_ids"`
	// WrappersSynced is false when the membership change persisted but the
	// reading-state fan-out failed; the returned error carries the cause.
	WrappersSynced bool `json:"wrappers_synced"`
}

// RequestToJoin records a join request from userID on the bookshelf's
// pending queue. Any non-member may self-invoke this; pending membership
// grants no book access, so no wrappers are created.
func (s *CircleService) RequestToJoin(ctx context.Context, bookshelfID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := &circleContext{store: s.store, bookshelfID: bookshelfID, userID: userID}
	if err := runChecks(ctx, c, joinRequestChecks...); err != nil {
		return err
	}

	shelf := c.bookshelf
	shelf.AddPending(userID)

	if err := s.store.UpdateBookshelf(ctx, shelf); err != nil {
		return fmt.Errorf("persist join request: %w", err)
	}

	s.logger.Info("join requested",
		"bookshelf_id", bookshelfID,
		"user_id", userID,
		"pending_count", len(shelf.PendingIDs),
	)
	return nil
}

// AddMember directly adds userID to the circle. Owner-gated; creates a
// wrapper for every book on the shelf.
func (s *CircleService) AddMember(ctx context.Context, bookshelfID, ownerID, userID string) (*CircleUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &circleContext{store: s.store, bookshelfID: bookshelfID, ownerID: ownerID, userID: userID}
	if err := runChecks(ctx, c, addMemberChecks...); err != nil {
		return nil, err
	}

	shelf := c.bookshelf
	shelf.AddMember(userID)

	if err := s.store.UpdateBookshelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("persist member addition: %w", err)
	}

	update := &CircleUpdate{
		BookshelfID:    shelf.ID,
		MemberIDs:      slices.Clone(shelf.MemberIDs),
		WrappersSynced: true,
	}

	if err := s.sync.AddWrappersForUser(ctx, userID, shelf.BookIDs); err != nil {
		update.WrappersSynced = false
		s.logger.Error("member added but wrapper sync failed",
			"bookshelf_id", bookshelfID,
			"user_id", userID,
			"error", err,
		)
		return update, fmt.Errorf("member added but wrapper sync failed: %w", err)
	}

	s.logger.Info("member added",
		"bookshelf_id", bookshelfID,
		"owner_id", ownerID,
		"user_id", userID,
		"member_count", len(shelf.MemberIDs),
	)
	return update, nil
}

// RemoveMember removes userID from the circle. Owner-gated; deletes the
// user's wrapper for every book on the shelf.
func (s *CircleService) RemoveMember(ctx context.Context, bookshelfID, ownerID, userID string) (*CircleUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &circleContext{store: s.store, bookshelfID: bookshelfID, ownerID: ownerID, userID: userID}
	if err := runChecks(ctx, c, removeMemberChecks...); err != nil {
		return nil, err
	}

	shelf := c.bookshelf
	shelf.RemoveMember(userID)

	if err := s.store.UpdateBookshelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("persist member removal: %w", err)
	}

	update := &CircleUpdate{
		BookshelfID:    shelf.ID,
		MemberIDs:      slices.Clone(shelf.MemberIDs),
		WrappersSynced: true,
	}

	if err := s.sync.RemoveWrappersForUser(ctx, userID, shelf.BookIDs); err != nil {
		update.WrappersSynced = false
		s.logger.Error("member removed but wrapper sync failed",
			"bookshelf_id", bookshelfID,
			"user_id", userID,
			"error", err,
		)
		return update, fmt.Errorf("member removed but wrapper sync failed: %w", err)
	}

	s.logger.Info("member removed",
		"bookshelf_id", bookshelfID,
		"owner_id", ownerID,
		"user_id", userID,
		"member_count", len(shelf.MemberIDs),
	)
	return update, nil
}

// AcceptPending promotes a pending requester to member. Owner-gated; creates
// wrappers for every book on the shelf. The pending-to-member move happens on
// the in-memory aggregate and persists atomically with the version check.
func (s *CircleService) AcceptPending(ctx context.Context, bookshelfID, ownerID, userID string) (*CircleUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &circleContext{store: s.store, bookshelfID: bookshelfID, ownerID: ownerID, userID: userID}
	if err := runChecks(ctx, c, acceptPendingChecks...); err != nil {
		return nil, err
	}

	shelf := c.bookshelf
	shelf.RemovePending(userID)
	shelf.AddMember(userID)

	if err := s.store.UpdateBookshelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("persist pending acceptance: %w", err)
	}

	update := &CircleUpdate{
		BookshelfID:    shelf.ID,
		MemberIDs:      slices.Clone(shelf.MemberIDs),
		WrappersSynced: true,
	}

	if err := s.sync.AddWrappersForUser(ctx, userID, shelf.BookIDs); err != nil {
		update.WrappersSynced = false
		s.logger.Error("pending accepted but wrapper sync failed",
			"bookshelf_id", bookshelfID,
			"user_id", userID,
			"error", err,
		)
		return update, fmt.Errorf("pending accepted but wrapper sync failed: %w", err)
	}

	s.logger.Info("pending member accepted",
		"bookshelf_id", bookshelfID,
		"owner_id", ownerID,
		"user_id", userID,
		"member_count", len(shelf.MemberIDs),
	)
	return update, nil
}

// RejectPending removes a pending join request without granting membership.
// Owner-gated; touches no wrappers.
func (s *CircleService) RejectPending(ctx context.Context, bookshelfID, ownerID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := &circleContext{store: s.store, bookshelfID: bookshelfID, ownerID: ownerID, userID: userID}
	if err := runChecks(ctx, c, rejectPendingChecks...); err != nil {
		return err
	}

	shelf := c.bookshelf
	shelf.RemovePending(userID)

	if err := s.store.UpdateBookshelf(ctx, shelf); err != nil {
		return fmt.Errorf("persist pending rejection: %w", err)
	}

	s.logger.Info("pending member rejected",
		"bookshelf_id", bookshelfID,
		"owner_id", ownerID,
		"user_id", userID,
	)
	return nil
}

// GetMembers returns the circle member IDs. Public read, no ownership gate.
func (s *CircleService) GetMembers(ctx context.Context, bookshelfID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shelf, err := s.store.GetBookshelf(ctx, bookshelfID)
	if err != nil {
		if errors.Is(err, store.ErrBookshelfNotFound) {
			return nil, ErrBookshelfMissing
		}
		return nil, fmt.Errorf("load bookshelf: %w", err)
	}

	return slices.Clone(shelf.MemberIDs), nil
}

// GetPendingMembers returns the pending join-request IDs. Owner-gated.
func (s *CircleService) GetPendingMembers(ctx context.Context, bookshelfID, ownerID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &circleContext{store: s.store, bookshelfID: bookshelfID, ownerID: ownerID}
	if err := runChecks(ctx, c, pendingListChecks...); err != nil {
		return nil, err
	}

	return slices.Clone(c.bookshelf.PendingIDs), nil
}
