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

// TaskService manages per-project work items. All operations verify that
// the enclosing project belongs to the calling user.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{db: db, repomanager: m, logger: logger.With("module", "tasks")}
}

// TaskInput carries the caller-editable task fields.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

func (in *TaskInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrorInvalidArgument)
	}
	if in.Status == "" {
		in.Status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(in.Status) {
		return fmt.Errorf("%w: unknown status %q", common.ErrorInvalidArgument, in.Status)
	}
	if in.Priority == "" {
		in.Priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(in.Priority) {
		return fmt.Errorf("%w: unknown priority %q", common.ErrorInvalidArgument, in.Priority)
	}
	return nil
}

// Create adds a task to the user's project.
func (s *TaskService) Create(ctx context.Context, userID, projectID string, in TaskInput) (*models.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	t, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	})
	if err != nil {
		s.logger.Error(ctx, "task create failed", "error", err)
		return nil, common.ErrorInternal
	}
	return t, nil
}

// Get returns one task from a project the user owns.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	t, err := s.repomanager.Tasks(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(ctx, s.logger, "task fetch failed", err)
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, t.ProjectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	return t, nil
}

// List returns the tasks of the user's project.
func (s *TaskService) List(ctx context.Context, userID, projectID string) ([]*models.Task, error) {
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	list, err := s.repomanager.Tasks(s.db).ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "task list failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Update replaces the editable fields of a task in the user's project.
func (s *TaskService) Update(ctx context.Context, userID, id string, in TaskInput) (*models.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Status = in.Status
	t.Priority = in.Priority
	t.DueDate = in.DueDate
	if err := s.repomanager.Tasks(s.db).Update(ctx, t); err != nil {
		s.logger.Error(ctx, "task update failed", "error", err)
		return nil, common.ErrorInternal
	}
	return t, nil
}

// Delete removes a task from the user's project.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Tasks(s.db).Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "task delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}
