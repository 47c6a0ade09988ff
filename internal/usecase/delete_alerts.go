package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

// DeleteAlertsUseCase removes alert settings from a project, either the
// tracked automation-created subset or everything.
type DeleteAlertsUseCase struct {
	api      domain.AlertSettingsAPI
	tracking domain.TrackingRepository
	logger   *slog.Logger
}

// NewDeleteAlertsUseCase creates a new deletion usecase.
func NewDeleteAlertsUseCase(api domain.AlertSettingsAPI, tracking domain.TrackingRepository, logger *slog.Logger) *DeleteAlertsUseCase {
	return &DeleteAlertsUseCase{
		api:      api,
		tracking: tracking,
		logger:   logger.With("component", "delete_alerts"),
	}
}

// DeleteTracked deletes only the alerts this tool previously created on the
// project. Alerts that are already gone count as deleted. The tracking file
// keeps any ID whose deletion failed, so a later run can retry.
func (uc *DeleteAlertsUseCase) DeleteTracked(ctx context.Context, projectID string) (int, error) {
	trackedIDs, err := uc.tracking.Load(projectID)
	if err != nil {
		return 0, fmt.Errorf("load tracked alerts: %w", err)
	}
	if len(trackedIDs) == 0 {
		uc.logger.Info("no automation-created alerts tracked for project", "project_id", projectID)
		return 0, nil
	}

	uc.logger.Info("deleting tracked alerts", "count", len(trackedIDs))

	var deletedIDs []string
	for _, alertID := range trackedIDs {
		err := uc.api.Delete(ctx, alertID, projectID)
		switch {
		case err == nil:
			uc.logger.Info("deleted alert", "alert_id", alertID)
			deletedIDs = append(deletedIDs, alertID)
		case errors.Is(err, domain.ErrAlertNotFound):
			uc.logger.Info("alert already deleted", "alert_id", alertID)
			deletedIDs = append(deletedIDs, alertID)
		default:
			uc.logger.Warn("failed to delete alert", "alert_id", alertID, "error", err)
		}
	}

	if len(deletedIDs) > 0 {
		if err := uc.tracking.Remove(projectID, deletedIDs); err != nil {
			return len(deletedIDs), fmt.Errorf("update tracking file: %w", err)
		}
	}
	return len(deletedIDs), nil
}

// DeleteAll deletes every alert setting on the project, default Atlas alerts
// included. Callers are expected to have confirmed this with the operator.
func (uc *DeleteAlertsUseCase) DeleteAll(ctx context.Context, projectID string) (int, error) {
	alerts, err := uc.api.List(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("list alerts: %w", err)
	}
	if len(alerts) == 0 {
		uc.logger.Info("no alerts found", "project_id", projectID)
		return 0, nil
	}

	uc.logger.Info("deleting all alerts", "count", len(alerts))

	deleted := 0
	for _, alert := range alerts {
		if alert.ID == "" {
			continue
		}
		if err := uc.api.Delete(ctx, alert.ID, projectID); err != nil {
			uc.logger.Warn("failed to delete alert", "alert_id", alert.ID, "error", err)
			continue
		}
		uc.logger.Info("deleted alert", "alert_id", alert.ID)
		deleted++
	}
	return deleted, nil
}
