package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"studio_backend/internal/events"
	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/repository"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"
)

// CatalogReader provides the studio catalog tree.
type CatalogReader interface {
	ListSections(ctx context.Context, studioID uuid.UUID) ([]domain.Section, error)
}

// SyncEnqueuer schedules an order sync to run in the background worker.
type SyncEnqueuer interface {
	EnqueueScheduleSync(ctx context.Context, studioID, jobID uuid.UUID) error
}

// Service provides business logic for scheduling structures.
type Service struct {
	repo     repository.Repository
	catalog  CatalogReader
	eventBus events.Bus
	log      *logger.Logger

	now      func() time.Time
	location *time.Location

	cache       *structureCache
	loads       singleflight.Group
	generations *generations
	reclassify  *reclassifyGate
	syncs       *syncChain
	enqueuer    SyncEnqueuer
}

// New creates a new scheduling service.
func New(repo repository.Repository, catalog CatalogReader, eventBus events.Bus, cfg config.SchedulingConfig, log *logger.Logger) *Service {
	s := &Service{
		repo:        repo,
		catalog:     catalog,
		eventBus:    eventBus,
		log:         log,
		now:         time.Now,
		location:    cfg.GetStudioTimezone(),
		generations: newGenerations(),
		reclassify:  newReclassifyGate(),
		syncs:       newSyncChain(),
	}
	s.cache = newStructureCache(cfg.GetStructureCacheSize(), cfg.GetStructureCacheTTL())
	return s
}

// SetSyncEnqueuer wires the background sync client.
func (s *Service) SetSyncEnqueuer(enqueuer SyncEnqueuer) {
	s.enqueuer = enqueuer
}

// SetClock replaces the wall clock used for "today".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current date in the studio timezone.
func (s *Service) Today() domain.Date {
	t := s.now().In(s.location)
	return domain.NewDate(t.Year(), t.Month(), t.Day())
}

// InvalidateStudio drops every memoized structure of a studio and notifies
// listeners.
func (s *Service) InvalidateStudio(ctx context.Context, studioID uuid.UUID, reason string) uint64 {
	gen := s.generations.bumpStudio(studioID)
	s.log.WithContext(ctx).Debug("studio structures invalidated", "studioId", studioID, "reason", reason, "token", gen)
	return gen
}

// invalidateJob bumps the job generation and publishes the new token.
func (s *Service) invalidateJob(ctx context.Context, studioID, jobID uuid.UUID, reason string) uint64 {
	gen := s.generations.bumpJob(jobID)
	s.publish(ctx, events.ScheduleStructureChanged{
		BaseEvent: events.NewBaseEvent(),
		StudioID:  studioID,
		JobID:     jobID,
		Token:     gen,
		Reason:    reason,
	})
	return gen
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

// Handle reacts to events of other contexts that invalidate structures.
func (s *Service) Handle(ctx context.Context, event events.Event) error {
	if e, ok := event.(events.CatalogChanged); ok {
		s.InvalidateStudio(ctx, e.StudioID, "catalog."+e.Reason)
	}
	return nil
}
