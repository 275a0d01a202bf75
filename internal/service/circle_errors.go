package service

import (
	domainerrors "github.com/readcircle/readcircle-server/internal/errors"
)

// Circle workflow failure reasons.
//
// This is the closed set of errors a circle membership operation can fail
// validation with. Handlers and clients match these with errors.Is; the
// messages are part of the API contract and map to HTTP status codes through
// the error code. Never compare the raw strings.
var (
	ErrBookshelfIDRequired = domainerrors.Validation("Bookshelf id cannot be null")
	ErrOwnerIDRequired     = domainerrors.Validation("Owner id cannot be null")
	ErrUserIDRequired      = domainerrors.Validation("User id cannot be null")

	ErrBookshelfMissing = domainerrors.NotFound("Bookshelf not found")
	ErrOwnerMissing     = domainerrors.NotFound("Owner not found")
	ErrUserMissing      = domainerrors.NotFound("User not found")

	ErrNotBookshelfOwner = domainerrors.Forbidden("User does not match the bookshelf's owner")

	ErrAlreadyInCircle      = domainerrors.Conflict("User already in circle")
	ErrAlreadyRequestedJoin = domainerrors.Conflict("User already requested to join circle")
	ErrNotInCircle          = domainerrors.Conflict("User not in circle")
	ErrNotPendingMember     = domainerrors.Conflict("User is not a pending member")
)
