// Package attachments provides persistence for object-storage attachment
// records (receipts, photos).
package attachments

import (
	"context"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Repository describes the operations available on the attachments table.
type Repository interface {
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	GetByID(ctx context.Context, id string) (*models.Attachment, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Attachment, error)
	MarkUploaded(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
