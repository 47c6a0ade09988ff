package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain/mocks"
)

func shortOpts() SimulationOptions {
	return SimulationOptions{
		Duration:     200 * time.Millisecond,
		Workers:      2,
		OpsPerSecond: 1000,
	}
}

func TestRun_UnknownSimulation(t *testing.T) {
	uc := NewRunSimulationUseCase(&mocks.MockLoadRepository{}, &mocks.MockConnectionPool{}, nil, discardLogger())
	if err := uc.Run(context.Background(), Simulation("bogus"), shortOpts()); err == nil {
		t.Fatal("expected error for unknown simulation")
	}
}

func TestCPULoad(t *testing.T) {
	repo := &mocks.MockLoadRepository{}
	uc := NewRunSimulationUseCase(repo, &mocks.MockConnectionPool{}, nil, discardLogger())

	if err := uc.CPULoad(context.Background(), shortOpts()); err != nil {
		t.Fatalf("CPULoad() error: %v", err)
	}
	if repo.SeededDocuments != cpuSeedCount {
		t.Errorf("seeded: got %d, want %d", repo.SeededDocuments, cpuSeedCount)
	}
	if repo.Aggregations == 0 {
		t.Error("expected at least one aggregation within the run window")
	}
}

func TestCPULoad_SeedFailureAborts(t *testing.T) {
	repo := &mocks.MockLoadRepository{SeedErr: context.DeadlineExceeded}
	uc := NewRunSimulationUseCase(repo, &mocks.MockConnectionPool{}, nil, discardLogger())

	if err := uc.CPULoad(context.Background(), shortOpts()); err == nil {
		t.Fatal("expected seeding failure to abort the simulation")
	}
	if repo.Aggregations != 0 {
		t.Error("no aggregations should run after a failed seed")
	}
}

func TestQueryTargeting(t *testing.T) {
	repo := &mocks.MockLoadRepository{DroppedIndexes: 2}
	uc := NewRunSimulationUseCase(repo, &mocks.MockConnectionPool{}, nil, discardLogger())

	if err := uc.QueryTargeting(context.Background(), shortOpts()); err != nil {
		t.Fatalf("QueryTargeting() error: %v", err)
	}
	if repo.SeededDocuments != scanSeedCount {
		t.Errorf("seeded: got %d, want %d", repo.SeededDocuments, scanSeedCount)
	}
	if repo.ScanRounds == 0 {
		t.Error("expected at least one scan round within the run window")
	}
}

func TestWriteLoad(t *testing.T) {
	repo := &mocks.MockLoadRepository{}
	uc := NewRunSimulationUseCase(repo, &mocks.MockConnectionPool{}, nil, discardLogger())

	if err := uc.WriteLoad(context.Background(), shortOpts()); err != nil {
		t.Fatalf("WriteLoad() error: %v", err)
	}
	if repo.InsertedBatches == 0 {
		t.Error("expected inserts within the run window")
	}
	if repo.Touches == 0 {
		t.Error("every write round also updates active documents")
	}
}

func TestReadLoad(t *testing.T) {
	t.Run("Existing data is not reseeded", func(t *testing.T) {
		repo := &mocks.MockLoadRepository{CountResult: 20000}
		uc := NewRunSimulationUseCase(repo, &mocks.MockConnectionPool{}, nil, discardLogger())

		if err := uc.ReadLoad(context.Background(), shortOpts()); err != nil {
			t.Fatalf("ReadLoad() error: %v", err)
		}
		if repo.SeededDocuments != 0 {
			t.Errorf("seeded: got %d, want 0", repo.SeededDocuments)
		}
		if repo.RandomReads == 0 || repo.RangeScans == 0 {
			t.Errorf("expected reads and scans, got %d/%d", repo.RandomReads, repo.RangeScans)
		}
		if repo.FullReads == 0 {
			t.Error("every read round also does a full-collection read")
		}
		if repo.FullReads != repo.RangeScans {
			t.Errorf("one full read per range scan, got %d/%d", repo.FullReads, repo.RangeScans)
		}
	})

	t.Run("Sparse collection gets seeded", func(t *testing.T) {
		repo := &mocks.MockLoadRepository{CountResult: 0}
		uc := NewRunSimulationUseCase(repo, &mocks.MockConnectionPool{}, nil, discardLogger())

		if err := uc.ReadLoad(context.Background(), shortOpts()); err != nil {
			t.Fatalf("ReadLoad() error: %v", err)
		}
		if repo.SeededDocuments != readSeedMinimum {
			t.Errorf("seeded: got %d, want %d", repo.SeededDocuments, readSeedMinimum)
		}
	})
}

func TestConnections(t *testing.T) {
	pool := &mocks.MockConnectionPool{}
	uc := NewRunSimulationUseCase(&mocks.MockLoadRepository{}, pool, nil, discardLogger())

	opts := SimulationOptions{Duration: 50 * time.Millisecond, MaxConnections: 3}
	if err := uc.Connections(context.Background(), opts); err != nil {
		t.Fatalf("Connections() error: %v", err)
	}
	if !pool.Closed {
		t.Error("pool must be released after the hold window")
	}
	if pool.Count() != 0 {
		t.Errorf("open connections after release: %d", pool.Count())
	}
}

func TestLoop_CanceledContextStops(t *testing.T) {
	repo := &mocks.MockLoadRepository{}
	uc := NewRunSimulationUseCase(repo, &mocks.MockConnectionPool{}, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := SimulationOptions{Duration: 10 * time.Second, Workers: 2, OpsPerSecond: 1000}
	done := make(chan error, 1)
	go func() { done <- uc.WriteLoad(ctx, opts) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WriteLoad() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("simulation did not stop on canceled context")
	}
}

func TestCleanup(t *testing.T) {
	repo := &mocks.MockLoadRepository{}
	uc := NewRunSimulationUseCase(repo, &mocks.MockConnectionPool{}, nil, discardLogger())

	if err := uc.Cleanup(context.Background()); err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if !repo.CleanedUp {
		t.Error("expected the scratch database to be dropped")
	}
}
