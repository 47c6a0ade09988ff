package mocks

import (
	"context"
	"sync"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

// MockAlertSettingsAPI is a mock implementation of domain.AlertSettingsAPI
// for testing.
type MockAlertSettingsAPI struct {
	mu           sync.Mutex
	CreatedPaths []string
	DeletedIDs   []string
	ListResult   []domain.AlertSummary
	CreateIDs    []string // returned in order; empty string after exhaustion
	AvailableErr error
	CreateErr    error
	CreateErrFor map[string]error // per config path
	ListErr      error
	DeleteErr    error
	DeleteErrFor map[string]error // per alert ID
	createCalls  int
}

func (m *MockAlertSettingsAPI) EnsureAvailable(ctx context.Context) error {
	return m.AvailableErr
}

func (m *MockAlertSettingsAPI) Create(ctx context.Context, configPath, projectID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	if err, ok := m.CreateErrFor[configPath]; ok {
		return "", err
	}
	m.CreatedPaths = append(m.CreatedPaths, configPath)
	id := ""
	if m.createCalls < len(m.CreateIDs) {
		id = m.CreateIDs[m.createCalls]
	}
	m.createCalls++
	return id, nil
}

func (m *MockAlertSettingsAPI) List(ctx context.Context, projectID string) ([]domain.AlertSummary, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListResult, nil
}

func (m *MockAlertSettingsAPI) Delete(ctx context.Context, alertID, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if err, ok := m.DeleteErrFor[alertID]; ok {
		return err
	}
	m.DeletedIDs = append(m.DeletedIDs, alertID)
	return nil
}

// MockTrackingRepository is an in-memory mock of domain.TrackingRepository.
type MockTrackingRepository struct {
	mu        sync.Mutex
	Tracked   map[string][]string
	LoadErr   error
	AppendErr error
	RemoveErr error
}

func (m *MockTrackingRepository) Load(projectID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Tracked[projectID], nil
}

func (m *MockTrackingRepository) Append(projectID string, alertIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	if m.Tracked == nil {
		m.Tracked = make(map[string][]string)
	}
	m.Tracked[projectID] = append(m.Tracked[projectID], alertIDs...)
	return nil
}

func (m *MockTrackingRepository) Remove(projectID string, alertIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	drop := make(map[string]struct{}, len(alertIDs))
	for _, id := range alertIDs {
		drop[id] = struct{}{}
	}
	var remaining []string
	for _, id := range m.Tracked[projectID] {
		if _, gone := drop[id]; !gone {
			remaining = append(remaining, id)
		}
	}
	if m.Tracked == nil {
		m.Tracked = make(map[string][]string)
	}
	m.Tracked[projectID] = remaining
	return nil
}

// MockRowSource is a static mock of domain.RowSource.
type MockRowSource struct {
	RowsResult []domain.AlertRow
	RowsErr    error
}

func (m *MockRowSource) Rows() ([]domain.AlertRow, error) {
	if m.RowsErr != nil {
		return nil, m.RowsErr
	}
	return m.RowsResult, nil
}

// MockLoadRepository is a call-counting mock of domain.LoadRepository.
type MockLoadRepository struct {
	mu               sync.Mutex
	SeededDocuments  int
	Aggregations     int
	ScanRounds       int
	InsertedBatches  int
	Touches          int
	Prunes           int
	RandomReads      int
	RangeScans       int
	FullReads        int
	DroppedIndexes   int
	CleanedUp        bool
	CountResult      int64
	PingErr          error
	SeedErr          error
	AggregateErr     error
	ScanErr          error
	InsertErr        error
	CleanupErr       error
	ScanQueriesPerOp int
}

func (m *MockLoadRepository) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockLoadRepository) SeedDocuments(ctx context.Context, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SeedErr != nil {
		return m.SeedErr
	}
	m.SeededDocuments += count
	return nil
}

func (m *MockLoadRepository) CountDocuments(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CountResult, nil
}

func (m *MockLoadRepository) RunAggregation(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AggregateErr != nil {
		return m.AggregateErr
	}
	m.Aggregations++
	return nil
}

func (m *MockLoadRepository) DropSecondaryIndexes(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.DroppedIndexes, nil
}

func (m *MockLoadRepository) RunScanQueries(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScanErr != nil {
		return 0, m.ScanErr
	}
	m.ScanRounds++
	if m.ScanQueriesPerOp > 0 {
		return m.ScanQueriesPerOp, nil
	}
	return 5, nil
}

func (m *MockLoadRepository) InsertBatch(ctx context.Context, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.InsertedBatches++
	return nil
}

func (m *MockLoadRepository) TouchActiveDocuments(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Touches++
	return nil
}

func (m *MockLoadRepository) PruneYoungDocuments(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prunes++
	return nil
}

func (m *MockLoadRepository) RandomRead(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RandomReads++
	return nil
}

func (m *MockLoadRepository) RangeScan(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RangeScans++
	return nil
}

func (m *MockLoadRepository) FullRead(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FullReads++
	return nil
}

func (m *MockLoadRepository) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CleanupErr != nil {
		return m.CleanupErr
	}
	m.CleanedUp = true
	return nil
}

// MockConnectionPool is an in-memory mock of domain.ConnectionPool.
type MockConnectionPool struct {
	mu      sync.Mutex
	open    int
	Closed  bool
	OpenErr error
}

func (m *MockConnectionPool) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.open++
	return nil
}

func (m *MockConnectionPool) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *MockConnectionPool) CloseAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = 0
	m.Closed = true
}
