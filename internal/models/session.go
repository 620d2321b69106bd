package models

import "time"

// Session is a server-side login session. The ID travels as the token's jti.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity is the acting user recovered from a session.
type Identity struct {
	UserID    int
	Username  string
	SessionID string
}
