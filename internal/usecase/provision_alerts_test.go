package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAlerts(paths ...string) []domain.GeneratedAlert {
	alerts := make([]domain.GeneratedAlert, 0, len(paths))
	for _, path := range paths {
		alerts = append(alerts, domain.GeneratedAlert{Name: path, Path: path})
	}
	return alerts
}

func TestProvision_SubmitsInOrderAndTracks(t *testing.T) {
	api := &mocks.MockAlertSettingsAPI{CreateIDs: []string{"id-1", "id-2"}}
	tracking := &mocks.MockTrackingRepository{}
	uc := NewProvisionAlertsUseCase(api, tracking, discardLogger())

	summary, err := uc.Provision(context.Background(), testAlerts("a.json", "b.json"), "proj-1", false)
	if err != nil {
		t.Fatalf("Provision() error: %v", err)
	}
	if summary.Attempted != 2 || summary.Succeeded != 2 || summary.Failed != 0 {
		t.Errorf("summary: %+v", summary)
	}
	if len(api.CreatedPaths) != 2 || api.CreatedPaths[0] != "a.json" || api.CreatedPaths[1] != "b.json" {
		t.Errorf("created paths: %v", api.CreatedPaths)
	}
	tracked := tracking.Tracked["proj-1"]
	if len(tracked) != 2 || tracked[0] != "id-1" || tracked[1] != "id-2" {
		t.Errorf("tracked IDs: %v", tracked)
	}
}

func TestProvision_DryRun(t *testing.T) {
	api := &mocks.MockAlertSettingsAPI{}
	tracking := &mocks.MockTrackingRepository{}
	uc := NewProvisionAlertsUseCase(api, tracking, discardLogger())

	summary, err := uc.Provision(context.Background(), testAlerts("a.json"), "proj-1", true)
	if err != nil {
		t.Fatalf("Provision() error: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Errorf("summary: %+v", summary)
	}
	if len(api.CreatedPaths) != 0 {
		t.Errorf("dry run must not submit, got %v", api.CreatedPaths)
	}
	if len(tracking.Tracked) != 0 {
		t.Errorf("dry run must not track, got %v", tracking.Tracked)
	}
}

func TestProvision_CollectsFailures(t *testing.T) {
	api := &mocks.MockAlertSettingsAPI{
		CreateIDs:    []string{"id-1", "id-3"},
		CreateErrFor: map[string]error{"b.json": errors.New("invalid config")},
	}
	tracking := &mocks.MockTrackingRepository{}
	uc := NewProvisionAlertsUseCase(api, tracking, discardLogger())

	summary, err := uc.Provision(context.Background(), testAlerts("a.json", "b.json", "c.json"), "proj-1", false)
	if err != nil {
		t.Fatalf("failures must not abort the pass: %v", err)
	}
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("summary: %+v", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Name != "b.json" {
		t.Errorf("failures: %+v", summary.Failures)
	}
	if got := tracking.Tracked["proj-1"]; len(got) != 2 {
		t.Errorf("only successful IDs belong in tracking, got %v", got)
	}
}

func TestProvision_MissingIDIsNotTracked(t *testing.T) {
	// The CLI sometimes succeeds without echoing an ID back.
	api := &mocks.MockAlertSettingsAPI{CreateIDs: []string{"id-1"}}
	tracking := &mocks.MockTrackingRepository{}
	uc := NewProvisionAlertsUseCase(api, tracking, discardLogger())

	summary, err := uc.Provision(context.Background(), testAlerts("a.json", "b.json"), "proj-1", false)
	if err != nil {
		t.Fatalf("Provision() error: %v", err)
	}
	if summary.Succeeded != 2 {
		t.Errorf("summary: %+v", summary)
	}
	if got := tracking.Tracked["proj-1"]; len(got) != 1 || got[0] != "id-1" {
		t.Errorf("tracked IDs: %v", got)
	}
}

func TestProvision_TrackingFailureSurfaces(t *testing.T) {
	api := &mocks.MockAlertSettingsAPI{CreateIDs: []string{"id-1"}}
	tracking := &mocks.MockTrackingRepository{AppendErr: errors.New("disk full")}
	uc := NewProvisionAlertsUseCase(api, tracking, discardLogger())

	summary, err := uc.Provision(context.Background(), testAlerts("a.json"), "proj-1", false)
	if err == nil {
		t.Fatal("expected error when tracking persistence fails")
	}
	if summary.Succeeded != 1 {
		t.Errorf("the alert was still created: %+v", summary)
	}
}
