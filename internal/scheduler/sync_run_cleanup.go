package scheduler

import (
	"context"
	"time"

	"studio_backend/platform/logger"
)

const (
	defaultSyncRunCleanupInterval = time.Hour
	defaultSyncRunRetention       = 30 * 24 * time.Hour
)

// SyncRunCleaner deletes sync history older than the retention.
type SyncRunCleaner interface {
	CleanupSyncRuns(ctx context.Context, retention time.Duration) (int64, error)
}

// SyncRunCleanup periodically removes old schedule sync runs.
type SyncRunCleanup struct {
	cleaner   SyncRunCleaner
	log       *logger.Logger
	interval  time.Duration
	retention time.Duration
}

func NewSyncRunCleanup(cleaner SyncRunCleaner, log *logger.Logger, interval, retention time.Duration) *SyncRunCleanup {
	if interval <= 0 {
		interval = defaultSyncRunCleanupInterval
	}
	if retention <= 0 {
		retention = defaultSyncRunRetention
	}

	return &SyncRunCleanup{
		cleaner:   cleaner,
		log:       log,
		interval:  interval,
		retention: retention,
	}
}

func (c *SyncRunCleanup) Run(ctx context.Context) {
	if c == nil || c.cleaner == nil {
		return
	}

	c.cleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *SyncRunCleanup) cleanup(ctx context.Context) {
	deleted, err := c.cleaner.CleanupSyncRuns(ctx, c.retention)
	if err != nil {
		c.log.Warn("sync run cleanup failed", "error", err)
		return
	}

	if deleted > 0 {
		c.log.Info("sync run cleanup deleted old runs", "deleted", deleted)
	}
}
