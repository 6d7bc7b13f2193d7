// Package profiles provides persistence for per-user profile records.
package profiles

import (
	"context"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations available on the profiles table.
type Repository interface {
	// Create inserts an empty profile for userID. Called inside the
	// registration transaction so a user can never exist without one.
	Create(ctx context.Context, userID string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}
