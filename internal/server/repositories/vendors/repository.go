// Package vendors provides persistence for supplier records.
package vendors

import (
	"context"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations available on the vendors table.
type Repository interface {
	Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
	GetByID(ctx context.Context, id string) (*models.Vendor, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id string) error
}
