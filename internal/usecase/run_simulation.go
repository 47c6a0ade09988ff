package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/adapter/metrics"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

// Simulation names one load scenario.
type Simulation string

const (
	SimulationCPU            Simulation = "cpu"
	SimulationQueryTargeting Simulation = "query-targeting"
	SimulationConnections    Simulation = "connections"
	SimulationWriteLoad      Simulation = "write-load"
	SimulationReadLoad       Simulation = "read-load"
)

// Simulations lists every scenario in the order the "all" mode runs them.
var Simulations = []Simulation{
	SimulationCPU,
	SimulationQueryTargeting,
	SimulationConnections,
	SimulationWriteLoad,
	SimulationReadLoad,
}

const (
	cpuSeedCount      = 10000
	scanSeedCount     = 50000
	scanSeedBatch     = 1000
	writeBatchSize    = 100
	writePruneAfter   = 50000
	readSeedMinimum   = 10000
	readBatchSize     = 100
	connectionStagger = 100 * time.Millisecond
	limiterBurst      = 100
)

// SimulationOptions tunes one simulation run.
type SimulationOptions struct {
	Duration       time.Duration
	Workers        int
	OpsPerSecond   int
	MaxConnections int
}

// RunSimulationUseCase drives sustained load against a deployment to
// provoke the conditions the provisioned alerts watch for.
type RunSimulationUseCase struct {
	repo    domain.LoadRepository
	pool    domain.ConnectionPool
	metrics *metrics.SimulatorMetrics
	logger  *slog.Logger
}

// NewRunSimulationUseCase creates a new simulation usecase. metrics may be
// nil when no metrics endpoint is being served.
func NewRunSimulationUseCase(repo domain.LoadRepository, pool domain.ConnectionPool, m *metrics.SimulatorMetrics, logger *slog.Logger) *RunSimulationUseCase {
	return &RunSimulationUseCase{
		repo:    repo,
		pool:    pool,
		metrics: m,
		logger:  logger.With("component", "run_simulation"),
	}
}

// Run executes one named simulation.
func (uc *RunSimulationUseCase) Run(ctx context.Context, sim Simulation, opts SimulationOptions) error {
	switch sim {
	case SimulationCPU:
		return uc.CPULoad(ctx, opts)
	case SimulationQueryTargeting:
		return uc.QueryTargeting(ctx, opts)
	case SimulationConnections:
		return uc.Connections(ctx, opts)
	case SimulationWriteLoad:
		return uc.WriteLoad(ctx, opts)
	case SimulationReadLoad:
		return uc.ReadLoad(ctx, opts)
	default:
		return fmt.Errorf("unknown simulation %q", sim)
	}
}

// RunAll executes every simulation in order, stopping at the first failure
// that is not a plain deadline expiry.
func (uc *RunSimulationUseCase) RunAll(ctx context.Context, opts SimulationOptions) error {
	for _, sim := range Simulations {
		if err := uc.Run(ctx, sim, opts); err != nil {
			return fmt.Errorf("simulation %s: %w", sim, err)
		}
	}
	return nil
}

// CPULoad seeds the scratch collection and hammers it with compute-heavy
// aggregations, driving CPU (User) % alerts.
func (uc *RunSimulationUseCase) CPULoad(ctx context.Context, opts SimulationOptions) error {
	uc.logger.Info("starting cpu load simulation", "duration", opts.Duration)

	if err := uc.repo.SeedDocuments(ctx, cpuSeedCount); err != nil {
		return err
	}
	uc.countDocuments(SimulationCPU, cpuSeedCount)
	uc.logger.Info("seeded test documents", "count", cpuSeedCount)

	iterations := uc.loop(ctx, SimulationCPU, opts, func(ctx context.Context) error {
		return uc.repo.RunAggregation(ctx)
	})
	uc.logger.Info("cpu simulation complete", "aggregations", iterations)
	return nil
}

// QueryTargeting drops secondary indexes and runs unindexed queries with
// small limits, skewing the scanned/returned ratio.
func (uc *RunSimulationUseCase) QueryTargeting(ctx context.Context, opts SimulationOptions) error {
	uc.logger.Info("starting query targeting simulation", "duration", opts.Duration)

	dropped, err := uc.repo.DropSecondaryIndexes(ctx)
	if err != nil {
		return err
	}
	if dropped > 0 {
		uc.logger.Info("dropped secondary indexes", "count", dropped)
	}

	uc.logger.Info("seeding test documents, this may take a moment", "count", scanSeedCount)
	for seeded := 0; seeded < scanSeedCount; seeded += scanSeedBatch {
		if err := uc.repo.SeedDocuments(ctx, scanSeedBatch); err != nil {
			return err
		}
		uc.countDocuments(SimulationQueryTargeting, scanSeedBatch)
		if (seeded+scanSeedBatch)%10000 == 0 {
			uc.logger.Info("seeding progress", "inserted", seeded+scanSeedBatch)
		}
	}

	var queries atomic.Int64
	uc.loop(ctx, SimulationQueryTargeting, opts, func(ctx context.Context) error {
		n, err := uc.repo.RunScanQueries(ctx)
		queries.Add(int64(n))
		return err
	})
	uc.logger.Info("query targeting simulation complete", "queries", queries.Load())
	return nil
}

// Connections opens held client connections up to the configured maximum,
// keeps them open for the duration, then releases them.
func (uc *RunSimulationUseCase) Connections(ctx context.Context, opts SimulationOptions) error {
	uc.logger.Info("starting connections simulation",
		"max_connections", opts.MaxConnections, "duration", opts.Duration)

	var wg sync.WaitGroup
	for i := 0; i < opts.MaxConnections; i++ {
		wg.Add(1)
		go func(connID int) {
			defer wg.Done()
			if err := uc.pool.Open(ctx); err != nil {
				uc.logger.Warn("connection failed", "conn_id", connID, "error", err)
				uc.countOp(SimulationConnections, false)
				return
			}
			uc.countOp(SimulationConnections, true)
			if uc.metrics != nil {
				uc.metrics.OpenConnections.Set(float64(uc.pool.Count()))
			}
		}(i + 1)
		// Stagger dials so the deployment sees a ramp, not a burst.
		select {
		case <-ctx.Done():
		case <-time.After(connectionStagger):
		}
	}
	wg.Wait()

	held := uc.pool.Count()
	uc.logger.Info("holding connections", "count", held, "duration", opts.Duration)
	select {
	case <-ctx.Done():
	case <-time.After(opts.Duration):
	}

	uc.pool.CloseAll(context.WithoutCancel(ctx))
	if uc.metrics != nil {
		uc.metrics.OpenConnections.Set(0)
	}
	uc.logger.Info("connections simulation complete", "held", held)
	return nil
}

// WriteLoad runs batched inserts, broad updates and pruning deletes,
// driving write IOPS, write latency and writer-queue alerts.
func (uc *RunSimulationUseCase) WriteLoad(ctx context.Context, opts SimulationOptions) error {
	uc.logger.Info("starting write load simulation", "duration", opts.Duration)

	var writes atomic.Int64
	uc.loop(ctx, SimulationWriteLoad, opts, func(ctx context.Context) error {
		if err := uc.repo.InsertBatch(ctx, writeBatchSize); err != nil {
			return err
		}
		uc.countDocuments(SimulationWriteLoad, writeBatchSize)
		if err := uc.repo.TouchActiveDocuments(ctx); err != nil {
			return err
		}
		if writes.Add(writeBatchSize) > writePruneAfter {
			return uc.repo.PruneYoungDocuments(ctx)
		}
		return nil
	})
	uc.logger.Info("write load simulation complete", "written", writes.Load())
	return nil
}

// ReadLoad runs random point reads, range scans and full-collection reads
// over seeded data, driving read IOPS, read latency and reader-queue alerts.
func (uc *RunSimulationUseCase) ReadLoad(ctx context.Context, opts SimulationOptions) error {
	uc.logger.Info("starting read load simulation", "duration", opts.Duration)

	count, err := uc.repo.CountDocuments(ctx)
	if err != nil {
		return err
	}
	if count < readSeedMinimum {
		uc.logger.Info("seeding test documents first", "count", readSeedMinimum)
		if err := uc.repo.SeedDocuments(ctx, readSeedMinimum); err != nil {
			return err
		}
		uc.countDocuments(SimulationReadLoad, readSeedMinimum)
	}

	var reads atomic.Int64
	uc.loop(ctx, SimulationReadLoad, opts, func(ctx context.Context) error {
		for i := 0; i < readBatchSize; i++ {
			if err := uc.repo.RandomRead(ctx); err != nil {
				return err
			}
			reads.Add(1)
		}
		if err := uc.repo.RangeScan(ctx); err != nil {
			return err
		}
		reads.Add(1)
		reads.Add(1)
		return uc.repo.FullRead(ctx)
	})
	uc.logger.Info("read load simulation complete", "reads", reads.Load())
	return nil
}

// Cleanup removes the scratch database.
func (uc *RunSimulationUseCase) Cleanup(ctx context.Context) error {
	uc.logger.Info("cleaning up test data")
	return uc.repo.Cleanup(ctx)
}

// loop runs op from a pool of workers until the configured duration
// elapses, rate-limited and counted. It returns the number of completed
// operations; operation errors are logged and counted, never fatal, so a
// transient failure does not end a long simulation.
func (uc *RunSimulationUseCase) loop(ctx context.Context, sim Simulation, opts SimulationOptions, op func(context.Context) error) int64 {
	runCtx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	limiter := rate.NewLimiter(rate.Limit(opts.OpsPerSecond), limiterBurst)

	var wg sync.WaitGroup
	var completed, failed atomic.Int64
	started := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := limiter.Wait(runCtx); err != nil {
					return
				}
				err := op(runCtx)
				switch {
				case err == nil:
					uc.countOp(sim, true)
					n := completed.Add(1)
					if n%100 == 0 {
						uc.logger.Debug("simulation progress",
							"simulation", sim, "completed", n,
							"elapsed", time.Since(started).Round(time.Second))
					}
				case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
					return
				default:
					uc.countOp(sim, false)
					failed.Add(1)
					uc.logger.Warn("simulation operation failed", "simulation", sim, "error", err)
				}
			}
		}()
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		uc.logger.Warn("simulation finished with failed operations", "simulation", sim, "failed", n)
	}
	return completed.Load()
}

func (uc *RunSimulationUseCase) countOp(sim Simulation, ok bool) {
	if uc.metrics == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	uc.metrics.OpsTotal.WithLabelValues(string(sim), status).Inc()
}

func (uc *RunSimulationUseCase) countDocuments(sim Simulation, n int) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.DocumentsTotal.WithLabelValues(string(sim)).Add(float64(n))
}
