// Command alert-simulator exercises a live MongoDB deployment to provoke
// the conditions the provisioned alerts watch for. Demo/testing only: never
// point it at a production database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/adapter/metrics"
	mongorepo "github.com/ycyeo-mongodb/atlas-alerts-aws/internal/adapter/repository/mongo"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/pkg/config"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/pkg/logger"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	uri := flag.String("uri", cfg.MongoURI, "MongoDB connection string (required)")
	simulation := flag.String("simulation", "cpu", "Simulation to run: cpu, query-targeting, connections, write-load, read-load, all")
	duration := flag.Duration("duration", 60*time.Second, "Duration of each simulation")
	maxConnections := flag.Int("max-connections", 50, "Connections to hold in the connections simulation")
	workers := flag.Int("c", 4, "Number of concurrent workers")
	rps := flag.Int("rps", 100, "Operations per second limit")
	cleanup := flag.Bool("cleanup", false, "Drop the scratch database after the simulation")
	cleanupOnly := flag.Bool("cleanup-only", false, "Only drop the scratch database, run nothing")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Address for the /metrics endpoint (empty disables it)")
	flag.Parse()

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if *uri == "" {
		log.Error("missing required flag -uri")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("connecting to deployment")
	repo, err := mongorepo.NewLoadRepository(ctx, *uri, log)
	if err != nil {
		log.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Warn("failed to disconnect", "error", err)
		}
	}()
	log.Info("connected to deployment")

	var m *metrics.SimulatorMetrics
	var metricsServer *http.Server
	if *metricsAddr != "" {
		m = metrics.NewSimulatorMetrics()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			log.Info("starting metrics server", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	pool := mongorepo.NewConnectionPool(*uri, log)
	sim := usecase.NewRunSimulationUseCase(repo, pool, m, log)

	exitCode := 0
	if *cleanupOnly {
		if err := sim.Cleanup(ctx); err != nil {
			log.Error("cleanup failed", "error", err)
			exitCode = 1
		}
	} else {
		opts := usecase.SimulationOptions{
			Duration:       *duration,
			Workers:        *workers,
			OpsPerSecond:   *rps,
			MaxConnections: *maxConnections,
		}

		if *simulation == "all" {
			err = sim.RunAll(ctx, opts)
		} else {
			err = sim.Run(ctx, usecase.Simulation(*simulation), opts)
		}
		if err != nil {
			log.Error("simulation failed", "error", err)
			exitCode = 1
		}

		if *cleanup && exitCode == 0 {
			if err := sim.Cleanup(ctx); err != nil {
				log.Error("cleanup failed", "error", err)
				exitCode = 1
			}
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	log.Info("simulation complete, check the Atlas alerts page for triggered alerts")
}
