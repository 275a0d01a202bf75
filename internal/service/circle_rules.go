package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/store"
)

// circleContext carries the identifiers and loaded state shared by every
// check in a circle validation chain. checkBookshelfExists populates
// bookshelf, so later checks (and the workflow itself) can use the loaded
// aggregate without a second read.
type circleContext struct {
	store       *store.Store
	bookshelfID string
	ownerID     string
	userID      string
	bookshelf   *domain.Bookshelf
}

// circleCheck verifies one precondition and returns a sentinel failure
// reason, or nil to defer to the next check in the chain.
type circleCheck func(ctx context.Context, c *circleContext) error

// runChecks runs an ordered validation chain, stopping at the first failure.
// Order matters: the first failing check determines the reported reason, so
// null checks come before existence checks and existence before state.
func runChecks(ctx context.Context, c *circleContext, checks ...circleCheck) error {
	for _, check := range checks {
		if err := check(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func checkBookshelfIDPresent(_ context.Context, c *circleContext) error {
	if c.bookshelfID == "" {
		return ErrBookshelfIDRequired
	}
	return nil
}

func checkOwnerIDPresent(_ context.Context, c *circleContext) error {
	if c.ownerID == "" {
		return ErrOwnerIDRequired
	}
	return nil
}

func checkUserIDPresent(_ context.Context, c *circleContext) error {
	if c.userID == "" {
		return ErrUserIDRequired
	}
	return nil
}

// checkBookshelfExists loads the aggregate into the context.
func checkBookshelfExists(ctx context.Context, c *circleContext) error {
	shelf, err := c.store.GetBookshelf(ctx, c.bookshelfID)
	if err != nil {
		if errors.Is(err, store.ErrBookshelfNotFound) {
			return ErrBookshelfMissing
		}
		return fmt.Errorf("load bookshelf: %w", err)
	}
	c.bookshelf = shelf
	return nil
}

func checkOwnerExists(ctx context.Context, c *circleContext) error {
	exists, err := c.store.UserExists(ctx, c.ownerID)
	if err != nil {
		return fmt.Errorf("check owner exists: %w", err)
	}
	if !exists {
		return ErrOwnerMissing
	}
	return nil
}

func checkUserExists(ctx context.Context, c *circleContext) error {
	exists, err := c.store.UserExists(ctx, c.userID)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return ErrUserMissing
	}
	return nil
}

func checkOwnerMatches(_ context.Context, c *circleContext) error {
	if !c.bookshelf.IsOwner(c.ownerID) {
		return ErrNotBookshelfOwner
	}
	return nil
}

func checkUserNotMember(_ context.Context, c *circleContext) error {
	if c.bookshelf.IsMember(c.userID) || c.bookshelf.IsOwner(c.userID) {
		return ErrAlreadyInCircle
	}
	return nil
}

func checkUserIsMember(_ context.Context, c *circleContext) error {
	if !c.bookshelf.IsMember(c.userID) {
		return ErrNotInCircle
	}
	return nil
}

func checkUserNotPending(_ context.Context, c *circleContext) error {
	if c.bookshelf.IsPending(c.userID) {
		return ErrAlreadyRequestedJoin
	}
	return nil
}

func checkUserIsPending(_ context.Context, c *circleContext) error {
	if !c.bookshelf.IsPending(c.userID) {
		return ErrNotPendingMember
	}
	return nil
}

// Validation chains per workflow operation. The orderings are part of the
// API contract: callers observe the first failing check's reason.
var (
	joinRequestChecks = []circleCheck{
		checkBookshelfIDPresent,
		checkUserIDPresent,
		checkBookshelfExists,
		checkUserExists,
		checkUserNotPending,
		checkUserNotMember,
	}

	addMemberChecks = []circleCheck{
		checkBookshelfIDPresent,
		checkOwnerIDPresent,
		checkUserIDPresent,
		checkBookshelfExists,
		checkOwnerExists,
		checkUserExists,
		checkOwnerMatches,
		checkUserNotMember,
	}

	removeMemberChecks = []circleCheck{
		checkBookshelfIDPresent,
		checkOwnerIDPresent,
		checkUserIDPresent,
		checkBookshelfExists,
		checkOwnerExists,
		checkUserExists,
		checkOwnerMatches,
		checkUserIsMember,
	}

	acceptPendingChecks = []circleCheck{
		checkBookshelfIDPresent,
		checkOwnerIDPresent,
		checkUserIDPresent,
		checkBookshelfExists,
		checkOwnerExists,
		checkUserExists,
		checkOwnerMatches,
		checkUserIsPending,
		checkUserNotMember,
	}

	rejectPendingChecks = []circleCheck{
		checkBookshelfIDPresent,
		checkOwnerIDPresent,
		checkUserIDPresent,
		checkBookshelfExists,
		checkOwnerExists,
		checkUserExists,
		checkOwnerMatches,
		checkUserIsPending,
	}

	pendingListChecks = []circleCheck{
		checkBookshelfIDPresent,
		checkOwnerIDPresent,
		checkBookshelfExists,
		checkOwnerExists,
		checkOwnerMatches,
	}
)
