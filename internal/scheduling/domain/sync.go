package domain

import "github.com/google/uuid"

// DefaultDurationDays is the duration given to schedule entries created by
// an order sync.
const DefaultDurationDays = 1

// SyncedEntry is the schedule entry already linked to an order item, with the
// source snapshot it was last synced from.
type SyncedEntry struct {
	TaskID                  uuid.UUID
	SourceName              string
	SourceCatalogCategoryID *uuid.UUID
}

// SyncCandidate is one approved order item considered by a sync.
type SyncCandidate struct {
	OrderItemID       uuid.UUID
	Name              string
	CatalogCategoryID *uuid.UUID
	Existing          *SyncedEntry
}

// SyncPlan is the outcome of planning a sync.
type SyncPlan struct {
	Create []SyncCandidate
	Update []SyncCandidate
	Skip   []SyncCandidate
}

// SyncResult reports what a sync did.
type SyncResult struct {
	Created int `json:"created" yaml:"created"`
	Updated int `json:"updated" yaml:"updated"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Result converts the plan into counters.
func (p SyncPlan) Result() SyncResult {
	return SyncResult{Created: len(p.Create), Updated: len(p.Update), Skipped: len(p.Skip)}
}

// PlanOrderSync decides, per approved order item, whether a schedule entry
// must be created, refreshed from its source, or left alone. Applying the plan
// and planning again yields only skips. Duplicate order item ids are planned
// once.
func PlanOrderSync(candidates []SyncCandidate) SyncPlan {
	var plan SyncPlan
	seen := make(map[uuid.UUID]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.OrderItemID]; dup {
			continue
		}
		seen[c.OrderItemID] = struct{}{}

		switch {
		case c.Existing == nil:
			plan.Create = append(plan.Create, c)
		case c.Existing.SourceName != c.Name || !sameID(c.Existing.SourceCatalogCategoryID, c.CatalogCategoryID):
			plan.Update = append(plan.Update, c)
		default:
			plan.Skip = append(plan.Skip, c)
		}
	}
	return plan
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
