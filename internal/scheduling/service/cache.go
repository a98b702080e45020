package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"studio_backend/internal/scheduling/domain"
)

// structureKey identifies one memoized structure. A mutation bumps one of the
// generations, which makes every older key unreachable.
type structureKey struct {
	studioID  uuid.UUID
	jobID     uuid.UUID
	jobGen    uint64
	studioGen uint64
	today     domain.Date
	options   domain.RowOptions
}

func (k structureKey) String() string {
	return fmt.Sprintf("%s/%s/%d/%d/%s/%t/%t",
		k.studioID, k.jobID, k.jobGen, k.studioGen, k.today, k.options.AddTaskPhantoms, k.options.AddCategoryPhantoms)
}

// structureCache is a size-bounded LRU with a per-entry TTL. The TTL bounds
// staleness for writes made by other processes. A non-positive TTL disables it.
type structureCache struct {
	lru *expirable.LRU[structureKey, *Structure]
}

func newStructureCache(size int, ttl time.Duration) *structureCache {
	if ttl <= 0 {
		return &structureCache{}
	}
	if size < 1 {
		size = 1
	}
	return &structureCache{lru: expirable.NewLRU[structureKey, *Structure](size, nil, ttl)}
}

func (c *structureCache) get(key structureKey) (*Structure, bool) {
	if c.lru == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *structureCache) put(key structureKey, value *Structure) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, value)
}

func (c *structureCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
