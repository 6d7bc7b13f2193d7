package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/dbx"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new active session expiring at now+validity.
func (r *PostgresRepository) Create(ctx context.Context, session *models.Session, validity time.Duration) (*models.Session, error) {
	query := `
		INSERT INTO sessions (user_id, token, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, expires_at
	`
	err := r.db.QueryRowContext(ctx, query,
		session.UserID, session.Token, time.Now().Add(validity), session.IPAddress, session.UserAgent).
		Scan(&session.ID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	session.IsActive = true
	return session, nil
}

// Find returns the session row for the given token string. Expiry and
// active-flag checks are the caller's concern; this is a plain indexed
// lookup.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, user_id, token, created_at, expires_at, is_active, ip_address, user_agent
		FROM sessions
		WHERE token = $1
	`
	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt, &s.ExpiresAt, &s.IsActive, &s.IPAddress, &s.UserAgent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// Deactivate revokes the session matching token, idempotently.
func (r *PostgresRepository) Deactivate(ctx context.Context, token string) (bool, error) {
	query := `
		UPDATE sessions
		SET is_active = false
		WHERE token = $1 AND is_active
	`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// DeactivateByUser revokes every active session of the user.
func (r *PostgresRepository) DeactivateByUser(ctx context.Context, userID string) error {
	query := `
		UPDATE sessions
		SET is_active = false
		WHERE user_id = $1 AND is_active
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteDefunct removes inactive or expired rows. Rows that are both
// active and unexpired are never touched.
func (r *PostgresRepository) DeleteDefunct(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE NOT is_active OR expires_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
