package models

import "time"

// User represents an account in the system. Anonymous accounts have no
// email and an empty password hash.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	IsAnonymous   bool
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
