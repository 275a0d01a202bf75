package domain

import "time"

// ReadingStatus tracks where a user is with a book.
type ReadingStatus string

const (
	ReadingStatusUnset      ReadingStatus = "unset"
	ReadingStatusWantToRead ReadingStatus = "want_to_read"
	ReadingStatusReading    ReadingStatus = "reading"
	ReadingStatusRead       ReadingStatus = "read"
)

// Valid checks if the status is a known value.
func (s ReadingStatus) Valid() bool {
	switch s {
	case ReadingStatusUnset, ReadingStatusWantToRead, ReadingStatusReading, ReadingStatusRead:
		return true
	default:
		return false
	}
}

// BookWrapper is one user's reading relationship with one book: status and
// current page, keyed by the (bookID, userID) pair. Wrappers are derived
// state - created when a user gains access to a book through bookshelf
// membership and deleted when that access goes away.
type BookWrapper struct {
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	BookID      string        `json:"book_id"`
	UserID      string        `json:"user_id"`
	Status      ReadingStatus `json:"status"`
	CurrentPage int           `json:"current_page"`
}

// WrapperKey builds the composite storage key for a (book, user) pair.
func WrapperKey(bookID, userID string) string {
	return bookID + ":" + userID
}

// Key returns the wrapper's composite key.
func (w *BookWrapper) Key() string {
	return WrapperKey(w.BookID, w.UserID)
}

// NewBookWrapper creates a wrapper with default reading state.
func NewBookWrapper(bookID, userID string) *BookWrapper {
	now := time.Now()
	return &BookWrapper{
		CreatedAt:   now,
		UpdatedAt:   now,
		BookID:      bookID,
		UserID:      userID,
		Status:      ReadingStatusUnset,
		CurrentPage: 0,
	}
}
