package domain

import "time"

// Book is a catalog entry shared by all users. Per-user reading state lives
// on BookWrapper, never on the book itself.
type Book struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	ISBN      string    `json:"isbn,omitempty"`
	PageCount int       `json:"page_count"`
}
