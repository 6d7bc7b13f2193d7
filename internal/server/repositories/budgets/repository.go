// Package budgets provides persistence for per-project budget items.
package budgets

import (
	"context"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations available on the budget_items table.
type Repository interface {
	// Upsert creates the budget item for (project, category) or updates
	// its planned amount if one already exists.
	Upsert(ctx context.Context, item *models.BudgetItem) (*models.BudgetItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.BudgetItem, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.BudgetItem, error)
}
