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

// ProjectService manages vehicle build projects. Every operation is
// scoped to the calling user: other users' projects behave as if they do
// not exist.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ProjectService {
	return &ProjectService{db: db, repomanager: m, logger: logger.With("module", "projects")}
}

// ProjectInput carries the caller-editable project fields.
type ProjectInput struct {
	Title       string
	Make        string
	Model       string
	Year        int
	Description string
	Status      string
}

func (in *ProjectInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrorInvalidArgument)
	}
	if in.Status == "" {
		in.Status = models.ProjectStatusPlanning
	}
	if !models.ValidProjectStatus(in.Status) {
		return fmt.Errorf("%w: unknown status %q", common.ErrorInvalidArgument, in.Status)
	}
	if in.Year != 0 && (in.Year < 1885 || in.Year > time.Now().Year()+1) {
		return fmt.Errorf("%w: implausible year %d", common.ErrorInvalidArgument, in.Year)
	}
	return nil
}

// Create adds a project for the user.
func (s *ProjectService) Create(ctx context.Context, userID string, in ProjectInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.repomanager.Projects(s.db).Create(ctx, &models.Project{
		UserID:      userID,
		Title:       in.Title,
		Make:        in.Make,
		Model:       in.Model,
		Year:        in.Year,
		Description: in.Description,
		Status:      in.Status,
	})
	if err != nil {
		s.logger.Error(ctx, "project create failed", "error", err)
		return nil, common.ErrorInternal
	}
	return p, nil
}

// Get returns the user's project by id.
func (s *ProjectService) Get(ctx context.Context, userID, id string) (*models.Project, error) {
	p, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, id)
	if err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	return p, nil
}

// List returns the user's projects, newest first.
func (s *ProjectService) List(ctx context.Context, userID string) ([]*models.Project, error) {
	list, err := s.repomanager.Projects(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "project list failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Update replaces the editable fields of the user's project.
func (s *ProjectService) Update(ctx context.Context, userID, id string, in ProjectInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	repo := s.repomanager.Projects(s.db)
	p, err := ownedProject(ctx, repo, userID, id)
	if err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	p.Title = in.Title
	p.Make = in.Make
	p.Model = in.Model
	p.Year = in.Year
	p.Description = in.Description
	p.Status = in.Status
	if err := repo.Update(ctx, p); err != nil {
		s.logger.Error(ctx, "project update failed", "error", err)
		return nil, common.ErrorInternal
	}
	return p, nil
}

// Delete removes the user's project; tasks, parts, budget items, expenses,
// maintenance entries, and attachment records cascade in the store.
func (s *ProjectService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Projects(s.db)
	if _, err := ownedProject(ctx, repo, userID, id); err != nil {
		return mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "project delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}
