package models

import "time"

// Session is one authenticated login. The opaque bearer token is the sole
// capability needed to act as the owning user until the session expires or
// is revoked.
//
// A session is usable only while IsActive is true and ExpiresAt is in the
// future. Logout and a superseding login flip IsActive; expiry is a derived
// read-time check, never an explicit transition. The cleanup sweep is the
// only thing that physically deletes rows.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
}

// Usable reports whether the session authenticates requests at the given
// instant.
func (s *Session) Usable(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
