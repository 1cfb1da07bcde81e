package domain

import "time"

// User represents a registered account holder. Usernames are unique and
// immutable after creation; users are never updated or deleted in-system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Session binds an opaque client-held token to a user identity until it
// expires or is revoked by logout.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}
