package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio_backend/internal/adapters"
	"studio_backend/internal/catalog"
	"studio_backend/internal/events"
	"studio_backend/internal/scheduler"
	"studio_backend/internal/scheduling"
	"studio_backend/platform/config"
	"studio_backend/platform/db"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Worker-side scheduling wiring (no HTTP handlers required).
	catalogModule := catalog.NewModule(pool, eventBus, val, log)
	sectionReader := adapters.NewCatalogSectionReader(catalogModule.Repository())
	schedulingModule, err := scheduling.NewModule(pool, sectionReader, eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize scheduling module", "error", err)
		panic("failed to initialize scheduling module: " + err.Error())
	}
	schedulingModule.RegisterHandlers(eventBus)
	svc := schedulingModule.Service()

	sweep := scheduler.NewSyncSweep(svc, log, cfg.GetSyncSweepInterval())
	go sweep.Run(ctx)

	cleanup := scheduler.NewSyncRunCleanup(svc, log, cfg.GetSyncRunCleanupInterval(), cfg.GetSyncRunRetention())
	go cleanup.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, svc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
