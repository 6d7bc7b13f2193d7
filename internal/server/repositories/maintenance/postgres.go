package maintenance

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

const scheduleColumns = `id, project_id, title, notes, interval_days, next_due_at, created_at, updated_at`

func scanSchedule(scan func(dest ...any) error) (*models.MaintenanceSchedule, error) {
	m := &models.MaintenanceSchedule{}
	err := scan(&m.ID, &m.ProjectID, &m.Title, &m.Notes, &m.IntervalDays,
		&m.NextDueAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.MaintenanceSchedule) (*models.MaintenanceSchedule, error) {
	query := `
		INSERT INTO maintenance_schedules (project_id, title, notes, interval_days, next_due_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.ProjectID, entry.Title, entry.Notes, entry.IntervalDays, entry.NextDueAt).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.MaintenanceSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM maintenance_schedules
		WHERE id = $1
	`
	return scanSchedule(r.db.QueryRowContext(ctx, query, id).Scan)
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.MaintenanceSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM maintenance_schedules
		WHERE project_id = $1
		ORDER BY next_due_at
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.MaintenanceSchedule
	for rows.Next() {
		m, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.MaintenanceSchedule) error {
	query := `
		UPDATE maintenance_schedules
		SET title = $2, notes = $3, interval_days = $4, next_due_at = $5, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Title, entry.Notes, entry.IntervalDays, entry.NextDueAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM maintenance_schedules
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
