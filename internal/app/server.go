package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/five82/kanban/internal/config"
	"github.com/five82/kanban/internal/logging"
	"github.com/five82/kanban/internal/server"
	"github.com/five82/kanban/internal/storage"
	"github.com/five82/kanban/internal/storage/sqlstore"
	"github.com/five82/kanban/internal/telemetry"
)

// Version is reported in traces and logs. Release builds set it with
// -ldflags "-X github.com/five82/kanban/internal/app.Version=...".
var Version = "dev"

// RunServer serves the items API until ctx is cancelled.
func RunServer(ctx context.Context, cfg config.ServerConfig) error {
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()

	logger.Info("starting items server",
		zap.String("version", Version),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.DatabaseDriver),
	)

	shutdownTracer, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:        cfg.EnableTracing,
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: Version,
		Insecure:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	repo, err := OpenRepository(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	var registry *prometheus.Registry
	if cfg.EnableMetrics {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	srv := server.New(repo, logger, server.Options{
		AllowedLists:    cfg.AllowedLists,
		Registry:        registry,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
	return srv.ListenAndServe(ctx, cfg.Addr)
}

// OpenRepository opens the storage backend named by driver.
func OpenRepository(ctx context.Context, driver, url string) (storage.Repository, error) {
	switch driver {
	case "memory":
		return storage.NewMemory(), nil
	case "sqlite":
		repo, err := sqlstore.OpenSQLite(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite: %w", err)
		}
		return repo, nil
	case "postgres":
		repo, err := sqlstore.OpenPostgres(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
