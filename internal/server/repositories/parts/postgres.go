package parts

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

const partColumns = `id, project_id, vendor_id, name, part_number, price_cents, quantity, status, created_at, updated_at`

func scanPart(scan func(dest ...any) error) (*models.Part, error) {
	p := &models.Part{}
	err := scan(&p.ID, &p.ProjectID, &p.VendorID, &p.Name, &p.PartNumber,
		&p.PriceCents, &p.Quantity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, part *models.Part) (*models.Part, error) {
	query := `
		INSERT INTO parts (project_id, vendor_id, name, part_number, price_cents, quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		part.ProjectID, part.VendorID, part.Name, part.PartNumber,
		part.PriceCents, part.Quantity, part.Status).
		Scan(&part.ID, &part.CreatedAt, &part.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return part, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Part, error) {
	query := `
		SELECT ` + partColumns + `
		FROM parts
		WHERE id = $1
	`
	return scanPart(r.db.QueryRowContext(ctx, query, id).Scan)
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Part, error) {
	query := `
		SELECT ` + partColumns + `
		FROM parts
		WHERE project_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.Part
	for rows.Next() {
		p, err := scanPart(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Update(ctx context.Context, part *models.Part) error {
	query := `
		UPDATE parts
		SET vendor_id = $2, name = $3, part_number = $4, price_cents = $5, quantity = $6, status = $7, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query,
		part.ID, part.VendorID, part.Name, part.PartNumber,
		part.PriceCents, part.Quantity, part.Status); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM parts
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
