package expenses

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

const expenseColumns = `id, project_id, category, description, amount_cents, vendor_id, attachment_id, spent_at, created_at`

func scanExpense(scan func(dest ...any) error) (*models.Expense, error) {
	e := &models.Expense{}
	err := scan(&e.ID, &e.ProjectID, &e.Category, &e.Description, &e.AmountCents,
		&e.VendorID, &e.AttachmentID, &e.SpentAt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	query := `
		INSERT INTO expenses (project_id, category, description, amount_cents, vendor_id, attachment_id, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		expense.ProjectID, expense.Category, expense.Description, expense.AmountCents,
		expense.VendorID, expense.AttachmentID, expense.SpentAt).
		Scan(&expense.ID, &expense.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return expense, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = $1
	`
	return scanExpense(r.db.QueryRowContext(ctx, query, id).Scan)
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE project_id = $1
		ORDER BY spent_at
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Update(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET category = $2, description = $3, amount_cents = $4, vendor_id = $5, attachment_id = $6, spent_at = $7
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query,
		expense.ID, expense.Category, expense.Description, expense.AmountCents,
		expense.VendorID, expense.AttachmentID, expense.SpentAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM expenses
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
