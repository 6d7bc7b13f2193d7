// Package models defines the persistence-level entities shared by the
// repositories and services.
package models

import "time"

// User is an account. PasswordHash never leaves the service boundary:
// it is excluded from JSON and stripped before a user is handed to the
// transport layer.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash []byte     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
}

// Public returns a copy safe to serialize: same fields, no hash.
func (u *User) Public() *User {
	c := *u
	c.PasswordHash = nil
	return &c
}
