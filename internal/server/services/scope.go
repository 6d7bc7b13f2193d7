package services

import (
	"context"
	"errors"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/logging"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
	projectsrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/projects"
)

// ownedProject loads the project and checks it belongs to userID. A
// project owned by someone else is reported as common.ErrorNotFound, so a
// caller probing ids cannot tell "missing" from "not yours".
func ownedProject(ctx context.Context, repo projectsrepo.Repository, userID, projectID string) (*models.Project, error) {
	p, err := repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

// mapStoreErr passes common.ErrorNotFound through untouched and collapses
// everything else to common.ErrorInternal after logging the cause.
func mapStoreErr(ctx context.Context, logger logging.Logger, msg string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	logger.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}
