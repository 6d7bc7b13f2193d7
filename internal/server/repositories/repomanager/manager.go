// Package repomanager vends repository implementations bound to a DBTX
// and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ivanuser/car-project-manager-sub002/internal/dbx"
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

// RepositoryManager hands out repositories bound to the given DBTX, so a
// service can run several repositories inside one transaction by passing
// the same tx handle to each.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Projects(db dbx.DBTX) projects.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Vendors(db dbx.DBTX) vendors.Repository
	Parts(db dbx.DBTX) parts.Repository
	Budgets(db dbx.DBTX) budgets.Repository
	Expenses(db dbx.DBTX) expenses.Repository
	Maintenance(db dbx.DBTX) maintenance.Repository
	Attachments(db dbx.DBTX) attachments.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
