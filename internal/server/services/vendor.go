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

// VendorService manages supplier records. Vendors hang off the user, not
// off a project, so parts and expenses from any of the user's projects
// can reference them.
type VendorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewVendorService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *VendorService {
	return &VendorService{db: db, repomanager: m, logger: logger.With("module", "vendors")}
}

// VendorInput carries the caller-editable vendor fields.
type VendorInput struct {
	Name    string
	Website string
	Phone   string
	Notes   string
}

func (in *VendorInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", common.ErrorInvalidArgument)
	}
	return nil
}

// Create adds a vendor for the user.
func (s *VendorService) Create(ctx context.Context, userID string, in VendorInput) (*models.Vendor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v, err := s.repomanager.Vendors(s.db).Create(ctx, &models.Vendor{
		UserID:  userID,
		Name:    in.Name,
		Website: in.Website,
		Phone:   in.Phone,
		Notes:   in.Notes,
	})
	if err != nil {
		s.logger.Error(ctx, "vendor create failed", "error", err)
		return nil, common.ErrorInternal
	}
	return v, nil
}

// Get returns the user's vendor by id.
func (s *VendorService) Get(ctx context.Context, userID, id string) (*models.Vendor, error) {
	v, err := s.repomanager.Vendors(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(ctx, s.logger, "vendor fetch failed", err)
	}
	if v.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

// List returns the user's vendors.
func (s *VendorService) List(ctx context.Context, userID string) ([]*models.Vendor, error) {
	list, err := s.repomanager.Vendors(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "vendor list failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Update replaces the editable fields of the user's vendor.
func (s *VendorService) Update(ctx context.Context, userID, id string, in VendorInput) (*models.Vendor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	v.Name = in.Name
	v.Website = in.Website
	v.Phone = in.Phone
	v.Notes = in.Notes
	if err := s.repomanager.Vendors(s.db).Update(ctx, v); err != nil {
		s.logger.Error(ctx, "vendor update failed", "error", err)
		return nil, common.ErrorInternal
	}
	return v, nil
}

// Delete removes the user's vendor. Parts and expenses that referenced it
// keep their rows; the store nulls the reference.
func (s *VendorService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Vendors(s.db).Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "vendor delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}
