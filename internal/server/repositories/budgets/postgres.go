package budgets

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

const budgetColumns = `id, project_id, category, planned_cents, created_at, updated_at`

func scanBudgetItem(scan func(dest ...any) error) (*models.BudgetItem, error) {
	b := &models.BudgetItem{}
	err := scan(&b.ID, &b.ProjectID, &b.Category, &b.PlannedCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// Upsert inserts or updates the planned amount for (project, category).
func (r *PostgresRepository) Upsert(ctx context.Context, item *models.BudgetItem) (*models.BudgetItem, error) {
	query := `
		INSERT INTO budget_items (project_id, category, planned_cents)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, category)
		DO UPDATE SET planned_cents = EXCLUDED.planned_cents, updated_at = now()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, item.ProjectID, item.Category, item.PlannedCents).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.BudgetItem, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budget_items
		WHERE id = $1
	`
	return scanBudgetItem(r.db.QueryRowContext(ctx, query, id).Scan)
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.BudgetItem, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budget_items
		WHERE project_id = $1
		ORDER BY category
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.BudgetItem
	for rows.Next() {
		b, err := scanBudgetItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM budget_items
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
