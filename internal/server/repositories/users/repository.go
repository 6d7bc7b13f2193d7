// Package users provides persistence for user accounts.
package users

import (
	"context"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations the services need on the users table.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	TouchLastSignIn(ctx context.Context, id string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	Deactivate(ctx context.Context, id string) error
}
