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

// ExpenseService manages spend records and produces the per-project
// expense report.
type ExpenseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewExpenseService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ExpenseService {
	return &ExpenseService{db: db, repomanager: m, logger: logger.With("module", "expenses")}
}

// ExpenseInput carries the caller-editable expense fields.
type ExpenseInput struct {
	Category     string
	Description  string
	AmountCents  int64
	VendorID     *string
	AttachmentID *string
	SpentAt      time.Time
}

func (in *ExpenseInput) validate() error {
	if in.Category == "" {
		return fmt.Errorf("%w: category is required", common.ErrorInvalidArgument)
	}
	if in.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", common.ErrorInvalidArgument)
	}
	if in.SpentAt.IsZero() {
		in.SpentAt = time.Now()
	}
	return nil
}

func (s *ExpenseService) checkVendor(ctx context.Context, userID string, vendorID *string) error {
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

// checkReceipt verifies a referenced receipt attachment belongs to the
// same project as the expense.
func (s *ExpenseService) checkReceipt(ctx context.Context, projectID string, attachmentID *string) error {
	if attachmentID == nil {
		return nil
	}
	a, err := s.repomanager.Attachments(s.db).GetByID(ctx, *attachmentID)
	if err != nil {
		return mapStoreErr(ctx, s.logger, "attachment fetch failed", err)
	}
	if a.ProjectID != projectID {
		return common.ErrorNotFound
	}
	return nil
}

// Create records an expense against the user's project.
func (s *ExpenseService) Create(ctx context.Context, userID, projectID string, in ExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	if err := s.checkVendor(ctx, userID, in.VendorID); err != nil {
		return nil, err
	}
	if err := s.checkReceipt(ctx, projectID, in.AttachmentID); err != nil {
		return nil, err
	}
	e, err := s.repomanager.Expenses(s.db).Create(ctx, &models.Expense{
		ProjectID:    projectID,
		Category:     in.Category,
		Description:  in.Description,
		AmountCents:  in.AmountCents,
		VendorID:     in.VendorID,
		AttachmentID: in.AttachmentID,
		SpentAt:      in.SpentAt,
	})
	if err != nil {
		s.logger.Error(ctx, "expense create failed", "error", err)
		return nil, common.ErrorInternal
	}
	return e, nil
}

// Get returns one expense from a project the user owns.
func (s *ExpenseService) Get(ctx context.Context, userID, id string) (*models.Expense, error) {
	e, err := s.repomanager.Expenses(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(ctx, s.logger, "expense fetch failed", err)
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, e.ProjectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	return e, nil
}

// List returns the expenses of the user's project.
func (s *ExpenseService) List(ctx context.Context, userID, projectID string) ([]*models.Expense, error) {
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	list, err := s.repomanager.Expenses(s.db).ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "expense list failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Update replaces the editable fields of an expense in the user's project.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, in ExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkVendor(ctx, userID, in.VendorID); err != nil {
		return nil, err
	}
	if err := s.checkReceipt(ctx, e.ProjectID, in.AttachmentID); err != nil {
		return nil, err
	}
	e.Category = in.Category
	e.Description = in.Description
	e.AmountCents = in.AmountCents
	e.VendorID = in.VendorID
	e.AttachmentID = in.AttachmentID
	e.SpentAt = in.SpentAt
	if err := s.repomanager.Expenses(s.db).Update(ctx, e); err != nil {
		s.logger.Error(ctx, "expense update failed", "error", err)
		return nil, common.ErrorInternal
	}
	return e, nil
}

// Delete removes an expense from the user's project.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Expenses(s.db).Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "expense delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}
