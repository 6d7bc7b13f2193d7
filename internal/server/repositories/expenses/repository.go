// Package expenses provides persistence for per-project spend records.
package expenses

import (
	"context"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations available on the expenses table.
type Repository interface {
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id string) error
}
