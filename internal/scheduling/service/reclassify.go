package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"studio_backend/internal/events"
	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/repository"
	"studio_backend/platform/apperr"
)

const reclassifySupersededMessage = "reclassification superseded by a newer request"

// reclassifyGate serializes writes per task and lets only the latest request
// for a task reach storage.
type reclassifyGate struct {
	mu     sync.Mutex
	seq    uint64
	latest map[uuid.UUID]uint64
	locks  map[uuid.UUID]*taskLock
}

type taskLock struct {
	mu   sync.Mutex
	refs int
}

func newReclassifyGate() *reclassifyGate {
	return &reclassifyGate{
		latest: make(map[uuid.UUID]uint64),
		locks:  make(map[uuid.UUID]*taskLock),
	}
}

// acquire registers a new request for the task and waits for its turn. The
// returned sequence number identifies the request; release must be called
// once the request is done.
func (g *reclassifyGate) acquire(taskID uuid.UUID) (seq uint64, release func()) {
	g.mu.Lock()
	g.seq++
	seq = g.seq
	g.latest[taskID] = seq
	l, ok := g.locks[taskID]
	if !ok {
		l = &taskLock{}
		g.locks[taskID] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return seq, func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, taskID)
			delete(g.latest, taskID)
		}
		g.mu.Unlock()
	}
}

func (g *reclassifyGate) isLatest(taskID uuid.UUID, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[taskID] == seq
}

// ReclassifyInput is a request to move a task to a stage and catalog category.
type ReclassifyInput struct {
	TaskID            uuid.UUID
	Stage             domain.Stage
	CatalogCategoryID uuid.UUID
}

// ReclassifyResult is the stored classification plus the new invalidation token.
type ReclassifyResult struct {
	Task  repository.ReclassifiedTask
	Token uint64
}

// Reclassify writes stage and catalog category of a task together. When
// several requests for the same task overlap, the last one issued wins and
// the older ones fail with a conflict without touching storage.
func (s *Service) Reclassify(ctx context.Context, studioID, jobID uuid.UUID, in ReclassifyInput) (ReclassifyResult, error) {
	sections, err := s.catalog.ListSections(ctx, studioID)
	if err != nil {
		s.log.WithContext(ctx).Warn("catalog unavailable for reclassification", "studioId", studioID, "error", err)
		return ReclassifyResult{}, apperr.Unavailable(domain.ErrCatalogNotAvailable.Error())
	}
	index := domain.NewCatalogIndex(sections)
	if err := domain.ValidateReclassification(index, in.Stage, in.CatalogCategoryID); err != nil {
		return ReclassifyResult{}, reclassificationError(err)
	}
	sectionID, _ := index.SectionOfCategory(in.CatalogCategoryID)

	seq, release := s.reclassify.acquire(in.TaskID)
	defer release()

	if !s.reclassify.isLatest(in.TaskID, seq) {
		return ReclassifyResult{}, apperr.Conflict(reclassifySupersededMessage)
	}
	if err := ctx.Err(); err != nil {
		return ReclassifyResult{}, err
	}

	task, err := s.repo.ReclassifyTask(ctx, repository.ReclassifyParams{
		StudioID:          studioID,
		JobID:             jobID,
		TaskID:            in.TaskID,
		Stage:             in.Stage,
		CatalogCategoryID: in.CatalogCategoryID,
		SectionID:         sectionID,
	})
	if err != nil {
		return ReclassifyResult{}, err
	}

	gen := s.invalidateJob(ctx, studioID, jobID, "task.reclassified")
	s.publish(ctx, events.TaskReclassified{
		BaseEvent:         events.NewBaseEvent(),
		StudioID:          studioID,
		JobID:             jobID,
		TaskID:            in.TaskID,
		Stage:             string(in.Stage),
		CatalogCategoryID: in.CatalogCategoryID,
	})

	s.log.WithContext(ctx).Info("task reclassified",
		"jobId", jobID, "taskId", in.TaskID, "stage", in.Stage, "catalogCategoryId", in.CatalogCategoryID)
	return ReclassifyResult{Task: task, Token: gen}, nil
}

func reclassificationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidStage), errors.Is(err, domain.ErrUnknownCategory):
		return apperr.Validation(err.Error())
	case errors.Is(err, domain.ErrCatalogNotAvailable):
		return apperr.Unavailable(err.Error())
	default:
		return err
	}
}
