package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ivanuser/car-project-manager-sub002/internal/dbx"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/migrations"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/attachments"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/budgets"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/expenses"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/maintenance"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/parts"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/profiles"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/projects"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/sessions"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/tasks"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/users"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/vendors"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed
// RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Vendors(db dbx.DBTX) vendors.Repository {
	return vendors.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Parts(db dbx.DBTX) parts.Repository {
	return parts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Budgets(db dbx.DBTX) budgets.Repository {
	return budgets.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Expenses(db dbx.DBTX) expenses.Repository {
	return expenses.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Maintenance(db dbx.DBTX) maintenance.Repository {
	return maintenance.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Attachments(db dbx.DBTX) attachments.Repository {
	return attachments.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
