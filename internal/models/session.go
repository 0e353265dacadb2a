package models

import "time"

// Session binds an opaque bearer token to a user. The token itself
// is the primary key; revocation is deletion of the row.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
