package service

import (
	"sync"

	"github.com/google/uuid"
)

// generations hands out invalidation tokens. Every bump draws from one
// monotonic counter, so a token never repeats across jobs or studios.
type generations struct {
	mu      sync.Mutex
	counter uint64
	jobs    map[uuid.UUID]uint64
	studios map[uuid.UUID]uint64
}

func newGenerations() *generations {
	return &generations{
		jobs:    make(map[uuid.UUID]uint64),
		studios: make(map[uuid.UUID]uint64),
	}
}

func (g *generations) snapshot(studioID, jobID uuid.UUID) (job, studio uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jobs[jobID], g.studios[studioID]
}

func (g *generations) bumpJob(jobID uuid.UUID) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	g.jobs[jobID] = g.counter
	return g.counter
}

func (g *generations) bumpStudio(studioID uuid.UUID) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	g.studios[studioID] = g.counter
	return g.counter
}

// token is the invalidation token a client compares against.
func token(job, studio uint64) uint64 {
	if studio > job {
		return studio
	}
	return job
}
