package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/logging"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/repomanager"
)

// MaintenanceService manages recurring maintenance schedule entries.
// Entry status is never stored; it is derived from the due date on every
// read.
type MaintenanceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewMaintenanceService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *MaintenanceService {
	return &MaintenanceService{db: db, repomanager: m, logger: logger.With("module", "maintenance")}
}

// MaintenanceInput carries the caller-editable schedule fields.
type MaintenanceInput struct {
	Title        string
	Notes        string
	IntervalDays int
	NextDueAt    time.Time
}

func (in *MaintenanceInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrorInvalidArgument)
	}
	if in.IntervalDays <= 0 {
		return fmt.Errorf("%w: interval must be positive", common.ErrorInvalidArgument)
	}
	if in.NextDueAt.IsZero() {
		return fmt.Errorf("%w: next due date is required", common.ErrorInvalidArgument)
	}
	return nil
}

// Create adds a schedule entry to the user's project.
func (s *MaintenanceService) Create(ctx context.Context, userID, projectID string, in MaintenanceInput) (*models.MaintenanceSchedule, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	entry, err := s.repomanager.Maintenance(s.db).Create(ctx, &models.MaintenanceSchedule{
		ProjectID:    projectID,
		Title:        in.Title,
		Notes:        in.Notes,
		IntervalDays: in.IntervalDays,
		NextDueAt:    in.NextDueAt,
	})
	if err != nil {
		s.logger.Error(ctx, "maintenance create failed", "error", err)
		return nil, common.ErrorInternal
	}
	entry.Status = entry.DeriveStatus(time.Now())
	return entry, nil
}

// Get returns one schedule entry from a project the user owns.
func (s *MaintenanceService) Get(ctx context.Context, userID, id string) (*models.MaintenanceSchedule, error) {
	entry, err := s.repomanager.Maintenance(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(ctx, s.logger, "maintenance fetch failed", err)
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, entry.ProjectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	entry.Status = entry.DeriveStatus(time.Now())
	return entry, nil
}

// List returns the schedule entries of the user's project with derived
// statuses.
func (s *MaintenanceService) List(ctx context.Context, userID, projectID string) ([]*models.MaintenanceSchedule, error) {
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	list, err := s.repomanager.Maintenance(s.db).ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "maintenance list failed", "error", err)
		return nil, common.ErrorInternal
	}
	now := time.Now()
	for _, entry := range list {
		entry.Status = entry.DeriveStatus(now)
	}
	return list, nil
}

// Update replaces the editable fields of a schedule entry.
func (s *MaintenanceService) Update(ctx context.Context, userID, id string, in MaintenanceInput) (*models.MaintenanceSchedule, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	entry, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	entry.Title = in.Title
	entry.Notes = in.Notes
	entry.IntervalDays = in.IntervalDays
	entry.NextDueAt = in.NextDueAt
	if err := s.repomanager.Maintenance(s.db).Update(ctx, entry); err != nil {
		s.logger.Error(ctx, "maintenance update failed", "error", err)
		return nil, common.ErrorInternal
	}
	entry.Status = entry.DeriveStatus(time.Now())
	return entry, nil
}

// Complete marks one occurrence done: the next due date advances by the
// entry's interval from the completion time.
func (s *MaintenanceService) Complete(ctx context.Context, userID, id string) (*models.MaintenanceSchedule, error) {
	entry, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	entry.NextDueAt = now.AddDate(0, 0, entry.IntervalDays)
	if err := s.repomanager.Maintenance(s.db).Update(ctx, entry); err != nil {
		s.logger.Error(ctx, "maintenance complete failed", "error", err)
		return nil, common.ErrorInternal
	}
	entry.Status = entry.DeriveStatus(now)
	return entry, nil
}

// Delete removes a schedule entry from the user's project.
func (s *MaintenanceService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Maintenance(s.db).Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "maintenance delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}
