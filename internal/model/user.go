package model

import "time"

// User represents a registered account that owns contacts
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	CreatedAt    time.Time `json:"created_at"`
	Avatar       *string   `json:"avatar,omitempty"` // Pointer for optional field
	RefreshToken *string   `json:"-"`                // Stored server-side only
}
