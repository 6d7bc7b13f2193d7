// Package maintenance provides persistence for recurring maintenance
// schedule entries.
package maintenance

import (
	"context"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations available on the
// maintenance_schedules table.
type Repository interface {
	Create(ctx context.Context, entry *models.MaintenanceSchedule) (*models.MaintenanceSchedule, error)
	GetByID(ctx context.Context, id string) (*models.MaintenanceSchedule, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.MaintenanceSchedule, error)
	Update(ctx context.Context, entry *models.MaintenanceSchedule) error
	Delete(ctx context.Context, id string) error
}
