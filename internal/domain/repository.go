package domain

import (
	"context"
	"errors"
)

// ErrAlertNotFound is returned by AlertSettingsAPI.Delete when the alert was
// already removed on the control plane.
var ErrAlertNotFound = errors.New("alert not found")

// AlertSummary is the slice of an Atlas alert-settings record the
// provisioner cares about when listing an existing project.
type AlertSummary struct {
	ID            string    `json:"id"`
	EventTypeName EventType `json:"eventTypeName"`
	Enabled       bool      `json:"enabled"`
}

// AlertSettingsAPI is the Atlas control-plane boundary. The concrete
// implementation shells out to the atlas CLI; the usecases only see this
// interface so it can be mocked in tests.
type AlertSettingsAPI interface {
	// EnsureAvailable verifies the CLI is installed and authenticated.
	EnsureAvailable(ctx context.Context) error

	// Create submits one configuration file and returns the new alert ID.
	// An empty ID with a nil error means the CLI reported success without
	// a parseable ID.
	Create(ctx context.Context, configPath, projectID string) (string, error)

	// List returns every alert setting configured on the project.
	List(ctx context.Context, projectID string) ([]AlertSummary, error)

	// Delete removes one alert setting. ErrAlertNotFound is returned when
	// the alert no longer exists.
	Delete(ctx context.Context, alertID, projectID string) error
}

// TrackingRepository persists the IDs of automation-created alerts per
// project, so deletion can target exactly what this tool created.
type TrackingRepository interface {
	Load(projectID string) ([]string, error)
	Append(projectID string, alertIDs []string) error
	Remove(projectID string, alertIDs []string) error
}

// RowSource supplies the raw alert-definition rows.
type RowSource interface {
	Rows() ([]AlertRow, error)
}

// LoadRepository is the database boundary for the alert simulator. Each
// method is one small scripted operation; the simulation usecases compose
// them into sustained load.
type LoadRepository interface {
	Ping(ctx context.Context) error
	SeedDocuments(ctx context.Context, count int) error
	CountDocuments(ctx context.Context) (int64, error)
	RunAggregation(ctx context.Context) error
	DropSecondaryIndexes(ctx context.Context) (int, error)
	RunScanQueries(ctx context.Context) (int, error)
	InsertBatch(ctx context.Context, count int) error
	TouchActiveDocuments(ctx context.Context) error
	PruneYoungDocuments(ctx context.Context) error
	RandomRead(ctx context.Context) error
	RangeScan(ctx context.Context) error
	FullRead(ctx context.Context) error
	Cleanup(ctx context.Context) error
}

// ConnectionPool opens and holds independent client connections against the
// target deployment, for driving connection-count alerts.
type ConnectionPool interface {
	Open(ctx context.Context) error
	Count() int
	CloseAll(ctx context.Context)
}
