package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/logging"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/repomanager"
)

// BudgetService manages the per-category planned amounts of a project.
// A project has at most one budget item per category, so writes are
// upserts keyed on (project, category).
type BudgetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewBudgetService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *BudgetService {
	return &BudgetService{db: db, repomanager: m, logger: logger.With("module", "budgets")}
}

// Set creates or replaces the planned amount for one category of the
// user's project.
func (s *BudgetService) Set(ctx context.Context, userID, projectID, category string, plannedCents int64) (*models.BudgetItem, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", common.ErrorInvalidArgument)
	}
	if plannedCents < 0 {
		return nil, fmt.Errorf("%w: planned amount must not be negative", common.ErrorInvalidArgument)
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	item, err := s.repomanager.Budgets(s.db).Upsert(ctx, &models.BudgetItem{
		ProjectID:    projectID,
		Category:     category,
		PlannedCents: plannedCents,
	})
	if err != nil {
		s.logger.Error(ctx, "budget upsert failed", "error", err)
		return nil, common.ErrorInternal
	}
	return item, nil
}

// List returns the budget items of the user's project.
func (s *BudgetService) List(ctx context.Context, userID, projectID string) ([]*models.BudgetItem, error) {
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	list, err := s.repomanager.Budgets(s.db).ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "budget list failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Delete removes a budget item from the user's project.
func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Budgets(s.db)
	item, err := repo.GetByID(ctx, id)
	if err != nil {
		return mapStoreErr(ctx, s.logger, "budget fetch failed", err)
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, item.ProjectID); err != nil {
		return mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "budget delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}
