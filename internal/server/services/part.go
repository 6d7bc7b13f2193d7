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

// PartService manages the parts list of a project.
type PartService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewPartService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *PartService {
	return &PartService{db: db, repomanager: m, logger: logger.With("module", "parts")}
}

// PartInput carries the caller-editable part fields.
type PartInput struct {
	Name       string
	PartNumber string
	PriceCents int64
	Quantity   int
	Status     string
	VendorID   *string
}

func (in *PartInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", common.ErrorInvalidArgument)
	}
	if in.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", common.ErrorInvalidArgument)
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	if in.Status == "" {
		in.Status = models.PartStatusNeeded
	}
	if !models.ValidPartStatus(in.Status) {
		return fmt.Errorf("%w: unknown status %q", common.ErrorInvalidArgument, in.Status)
	}
	return nil
}

// checkVendor verifies a referenced vendor exists and belongs to the user.
func (s *PartService) checkVendor(ctx context.Context, userID string, vendorID *string) error {
	if vendorID == nil {
		return nil
	}
	v, err := s.repomanager.Vendors(s.db).GetByID(ctx, *vendorID)
	if err != nil {
		return mapStoreErr(ctx, s.logger, "vendor fetch failed", err)
	}
	if v.UserID != userID {
		return common.ErrorNotFound
	}
	return nil
}

// Create adds a part to the user's project.
func (s *PartService) Create(ctx context.Context, userID, projectID string, in PartInput) (*models.Part, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	if err := s.checkVendor(ctx, userID, in.VendorID); err != nil {
		return nil, err
	}
	p, err := s.repomanager.Parts(s.db).Create(ctx, &models.Part{
		ProjectID:  projectID,
		VendorID:   in.VendorID,
		Name:       in.Name,
		PartNumber: in.PartNumber,
		PriceCents: in.PriceCents,
		Quantity:   in.Quantity,
		Status:     in.Status,
	})
	if err != nil {
		s.logger.Error(ctx, "part create failed", "error", err)
		return nil, common.ErrorInternal
	}
	return p, nil
}

// Get returns one part from a project the user owns.
func (s *PartService) Get(ctx context.Context, userID, id string) (*models.Part, error) {
	p, err := s.repomanager.Parts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(ctx, s.logger, "part fetch failed", err)
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, p.ProjectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	return p, nil
}

// List returns the parts of the user's project.
func (s *PartService) List(ctx context.Context, userID, projectID string) ([]*models.Part, error) {
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	list, err := s.repomanager.Parts(s.db).ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "part list failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Update replaces the editable fields of a part in the user's project.
func (s *PartService) Update(ctx context.Context, userID, id string, in PartInput) (*models.Part, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkVendor(ctx, userID, in.VendorID); err != nil {
		return nil, err
	}
	p.VendorID = in.VendorID
	p.Name = in.Name
	p.PartNumber = in.PartNumber
	p.PriceCents = in.PriceCents
	p.Quantity = in.Quantity
	p.Status = in.Status
	if err := s.repomanager.Parts(s.db).Update(ctx, p); err != nil {
		s.logger.Error(ctx, "part update failed", "error", err)
		return nil, common.ErrorInternal
	}
	return p, nil
}

// Delete removes a part from the user's project.
func (s *PartService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Parts(s.db).Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "part delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}
