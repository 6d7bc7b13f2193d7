package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/dbx"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const attachmentColumns = `id, project_id, file_name, content_type, storage_key, upload_status, created_at`

func scanAttachment(scan func(dest ...any) error) (*models.Attachment, error) {
	a := &models.Attachment{}
	err := scan(&a.ID, &a.ProjectID, &a.FileName, &a.ContentType,
		&a.StorageKey, &a.UploadStatus, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {
	query := `
		INSERT INTO attachments (project_id, file_name, content_type, storage_key, upload_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		attachment.ProjectID, attachment.FileName, attachment.ContentType,
		attachment.StorageKey, attachment.UploadStatus).
		Scan(&attachment.ID, &attachment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return attachment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	query := `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE id = $1
	`
	return scanAttachment(r.db.QueryRowContext(ctx, query, id).Scan)
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Attachment, error) {
	query := `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE project_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query := `
		UPDATE attachments
		SET upload_status = 'uploaded'
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM attachments
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
