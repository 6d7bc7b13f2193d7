package profiles

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

// Create inserts an empty profile for the user.
func (r *PostgresRepository) Create(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`
	p := &models.Profile{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, bio, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.FullName, &p.AvatarURL, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $2, avatar_url = $3, bio = $4, updated_at = now()
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.FullName, profile.AvatarURL, profile.Bio); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
