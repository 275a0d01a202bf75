package domain

import (
	"slices"
	"time"
)

// Category is a personal, named grouping of catalog books. Unlike bookshelves,
// categories are never shared and carry no membership.
type Category struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	BookIDs   []string  `json:"book_ids"`
}

// AddBook adds a book to the category. Returns false if already present.
func (c *Category) AddBook(bookID string) bool {
	if slices.Contains(c.BookIDs, bookID) {
		return false
	}
	c.BookIDs = append(c.BookIDs, bookID)
	c.UpdatedAt = time.Now()
	return true
}

// RemoveBook removes a book from the category. Returns false if absent.
func (c *Category) RemoveBook(bookID string) bool {
	for i, id := range c.BookIDs {
		if id == bookID {
			c.BookIDs = append(c.BookIDs[:i], c.BookIDs[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}
