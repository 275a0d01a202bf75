package store

import (
	"fmt"
	"net/http"
)

// Error is a store error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrUserNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "user not found",
	}

	ErrDuplicateUser = &Error{
		Code:    http.StatusConflict,
		Message: "user already exists",
	}

	ErrDuplicateEmail = &Error{
		Code:    http.StatusConflict,
		Message: "email already registered",
	}

	ErrBookNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "book not found",
	}

	ErrDuplicateBook = &Error{
		Code:    http.StatusConflict,
		Message: "book already exists",
	}

	ErrBookshelfNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "bookshelf not found",
	}

	ErrDuplicateBookshelf = &Error{
		Code:    http.StatusConflict,
		Message: "bookshelf already exists",
	}

	ErrVersionConflict = &Error{
		Code:    http.StatusConflict,
		Message: "bookshelf was modified concurrently",
	}

	ErrWrapperNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "book wrapper not found",
	}

	ErrDuplicateWrapper = &Error{
		Code:    http.StatusConflict,
		Message: "book wrapper already exists",
	}

	ErrCategoryNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "category not found",
	}

	ErrDuplicateCategory = &Error{
		Code:    http.StatusConflict,
		Message: "category already exists",
	}

	ErrSessionNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "session not found",
	}
)
