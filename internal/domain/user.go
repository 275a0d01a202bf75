package domain

import "time"

// User represents a registered account.
type User struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	// PasswordHash is the argon2id encoded hash. Never serialized to clients.
	PasswordHash string `json:"-"`
}
