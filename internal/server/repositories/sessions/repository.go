// Package sessions provides persistence for login sessions and their
// opaque bearer tokens.
package sessions

import (
	"context"
	"time"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations the auth service needs on the
// sessions table.
type Repository interface {
	// Create inserts a new active session for userID that expires after
	// validity.
	Create(ctx context.Context, session *models.Session, validity time.Duration) (*models.Session, error)

	// Find returns the session row for the given token string, whatever
	// its state. If no row matches, it returns common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Deactivate revokes the session matching token. It reports whether a
	// still-active row was flipped; revoking an unknown or already
	// inactive token is not an error.
	Deactivate(ctx context.Context, token string) (bool, error)

	// DeactivateByUser revokes every active session of the user. Called
	// inside the login transaction to enforce the single-active-session
	// policy.
	DeactivateByUser(ctx context.Context, userID string) error

	// DeleteDefunct physically removes rows that are inactive or past
	// their expiry, returning the number reclaimed.
	DeleteDefunct(ctx context.Context, now time.Time) (int64, error)
}
