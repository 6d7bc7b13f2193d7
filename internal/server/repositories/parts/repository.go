// Package parts provides persistence for per-project parts.
package parts

import (
	"context"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations available on the parts table.
type Repository interface {
	Create(ctx context.Context, part *models.Part) (*models.Part, error)
	GetByID(ctx context.Context, id string) (*models.Part, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Part, error)
	Update(ctx context.Context, part *models.Part) error
	Delete(ctx context.Context, id string) error
}
