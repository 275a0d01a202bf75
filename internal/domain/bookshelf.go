package domain

import (
	"slices"
	"time"
)

// Visibility controls who can discover a bookshelf.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Valid checks if the visibility is a known value.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// Bookshelf is a user-owned collection of books that can be shared with a
// circle of members. Membership is requested by other users and granted by
// the owner; pending requests sit in PendingIDs until accepted or rejected.
//
// Invariants maintained by the mutation helpers:
//   - MemberIDs and PendingIDs contain no duplicates and never the owner.
//   - The owner has implicit access and is never listed in either set.
//
// Version is an optimistic-concurrency token. The store rejects an update
// whose Version does not match the stored aggregate, so two racing writers
// cannot silently overwrite each other's membership changes.
type Bookshelf struct {
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Visibility  Visibility `json:"visibility"`
	BookIDs     []string   `json:"book_ids"`    // Books on the shelf, newest first
	MemberIDs   []string   `json:"member_ids"`  // Confirmed circle members (never the owner)
	PendingIDs  []string   `json:"pending_ids"` // Users awaiting accept/reject (never the owner)
	Version     uint64     `json:"version"`
}

// AddBook adds a book ID to the shelf, prepending it to maintain newest-first ordering.
// If the book is already present, this is a no-op. Updates UpdatedAt on success.
func (b *Bookshelf) AddBook(bookID string) bool {
	if slices.Contains(b.BookIDs, bookID) {
		return false
	}
	b.BookIDs = append([]string{bookID}, b.BookIDs...)
	b.UpdatedAt = time.Now()
	return true
}

// RemoveBook removes a book ID from the shelf.
// Updates UpdatedAt on success. Returns false if the book was not present.
func (b *Bookshelf) RemoveBook(bookID string) bool {
	for i, id := range b.BookIDs {
		if id == bookID {
			b.BookIDs = append(b.BookIDs[:i], b.BookIDs[i+1:]...)
			b.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// ContainsBook checks if a book ID is on this shelf.
func (b *Bookshelf) ContainsBook(bookID string) bool {
	return slices.Contains(b.BookIDs, bookID)
}

// IsOwner reports whether the given user owns this shelf.
func (b *Bookshelf) IsOwner(userID string) bool {
	return b.OwnerID == userID
}

// IsMember reports whether the given user is a confirmed circle member.
// The owner is not a member; use HasAccess for the combined check.
func (b *Bookshelf) IsMember(userID string) bool {
	return slices.Contains(b.MemberIDs, userID)
}

// IsPending reports whether the given user has an open join request.
func (b *Bookshelf) IsPending(userID string) bool {
	return slices.Contains(b.PendingIDs, userID)
}

// HasAccess reports whether the user may read the shelf's contents.
func (b *Bookshelf) HasAccess(userID string) bool {
	return b.IsOwner(userID) || b.IsMember(userID) || b.Visibility == VisibilityPublic
}

// AddMember adds a user to the member list.
// Returns false without mutating if the user is the owner or already a member.
func (b *Bookshelf) AddMember(userID string) bool {
	if userID == b.OwnerID || slices.Contains(b.MemberIDs, userID) {
		return false
	}
	b.MemberIDs = append(b.MemberIDs, userID)
	b.UpdatedAt = time.Now()
	return true
}

// RemoveMember removes a user from the member list.
// Returns false if the user was not a member.
func (b *Bookshelf) RemoveMember(userID string) bool {
	for i, id := range b.MemberIDs {
		if id == userID {
			b.MemberIDs = append(b.MemberIDs[:i], b.MemberIDs[i+1:]...)
			b.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// AddPending adds a user to the pending join-request list.
// Returns false without mutating if the user is the owner or already pending.
func (b *Bookshelf) AddPending(userID string) bool {
	if userID == b.OwnerID || slices.Contains(b.PendingIDs, userID) {
		return false
	}
	b.PendingIDs = append(b.PendingIDs, userID)
	b.UpdatedAt = time.Now()
	return true
}

// RemovePending removes a user from the pending list.
// Returns false if the user was not pending.
func (b *Bookshelf) RemovePending(userID string) bool {
	for i, id := range b.PendingIDs {
		if id == userID {
			b.PendingIDs = append(b.PendingIDs[:i], b.PendingIDs[i+1:]...)
			b.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// CircleIDs returns every user with reading access: the owner plus all members.
func (b *Bookshelf) CircleIDs() []string {
	ids := make([]string, 0, len(b.MemberIDs)+1)
	ids = append(ids, b.OwnerID)
	ids = append(ids, b.MemberIDs...)
	return ids
}
