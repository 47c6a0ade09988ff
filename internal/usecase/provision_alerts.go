package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

// ProvisionFailure records one alert the control plane rejected.
type ProvisionFailure struct {
	Name  string
	Error string
}

// ProvisionSummary is the result of one provisioning pass.
type ProvisionSummary struct {
	Attempted int
	Succeeded int
	Failed    int
	Failures  []ProvisionFailure
}

// ProvisionAlertsUseCase submits generated configuration files through the
// Atlas control-plane boundary and tracks the IDs it created.
type ProvisionAlertsUseCase struct {
	api      domain.AlertSettingsAPI
	tracking domain.TrackingRepository
	logger   *slog.Logger
}

// NewProvisionAlertsUseCase creates a new provisioning usecase.
func NewProvisionAlertsUseCase(api domain.AlertSettingsAPI, tracking domain.TrackingRepository, logger *slog.Logger) *ProvisionAlertsUseCase {
	return &ProvisionAlertsUseCase{
		api:      api,
		tracking: tracking,
		logger:   logger.With("component", "provision_alerts"),
	}
}

// Provision submits every generated alert in order. With dryRun set it only
// counts the alerts without touching the control plane. Submission failures
// are collected, not fatal: the summary reports them and the caller decides
// the exit status.
func (uc *ProvisionAlertsUseCase) Provision(ctx context.Context, alerts []domain.GeneratedAlert, projectID string, dryRun bool) (ProvisionSummary, error) {
	summary := ProvisionSummary{Attempted: len(alerts)}
	var createdIDs []string

	for i, alert := range alerts {
		uc.logger.Info("creating alert", "name", alert.Name, "progress", fmt.Sprintf("%d/%d", i+1, len(alerts)))

		if dryRun {
			uc.logger.Info("skipped (dry run)", "name", alert.Name)
			summary.Succeeded++
			continue
		}

		alertID, err := uc.api.Create(ctx, alert.Path, projectID)
		if err != nil {
			uc.logger.Error("failed to create alert", "name", alert.Name, "error", err)
			summary.Failed++
			summary.Failures = append(summary.Failures, ProvisionFailure{Name: alert.Name, Error: err.Error()})
			continue
		}

		summary.Succeeded++
		if alertID != "" {
			uc.logger.Info("alert created", "name", alert.Name, "alert_id", alertID)
			createdIDs = append(createdIDs, alertID)
		} else {
			uc.logger.Info("alert created", "name", alert.Name)
		}
	}

	if len(createdIDs) > 0 {
		if err := uc.tracking.Append(projectID, createdIDs); err != nil {
			// The alerts exist on the control plane either way; losing
			// tracking only affects later targeted deletion.
			uc.logger.Error("failed to persist tracked alert IDs", "error", err)
			return summary, fmt.Errorf("persist tracked alert IDs: %w", err)
		}
		uc.logger.Info("tracked created alerts", "count", len(createdIDs))
	}

	return summary, nil
}
