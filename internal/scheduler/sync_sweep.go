package scheduler

import (
	"context"
	"time"

	"studio_backend/platform/logger"
)

const (
	defaultSyncSweepInterval = 10 * time.Minute
	syncSweepBatchSize       = 100
)

// UnsyncedSweeper enqueues syncs for jobs whose approved order items are not
// reflected in the schedule.
type UnsyncedSweeper interface {
	SweepUnsynced(ctx context.Context, limit int) (int, error)
}

// SyncSweep periodically catches jobs whose order changed without a sync.
type SyncSweep struct {
	sweeper  UnsyncedSweeper
	log      *logger.Logger
	interval time.Duration
}

func NewSyncSweep(sweeper UnsyncedSweeper, log *logger.Logger, interval time.Duration) *SyncSweep {
	if interval <= 0 {
		interval = defaultSyncSweepInterval
	}
	return &SyncSweep{sweeper: sweeper, log: log, interval: interval}
}

func (s *SyncSweep) Run(ctx context.Context) {
	if s == nil || s.sweeper == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SyncSweep) sweep(ctx context.Context) {
	enqueued, err := s.sweeper.SweepUnsynced(ctx, syncSweepBatchSize)
	if err != nil {
		s.log.Warn("schedule sync sweep failed", "error", err)
		return
	}
	if enqueued > 0 {
		s.log.Info("schedule sync sweep enqueued jobs", "enqueued", enqueued)
	}
}
