package domain

import (
	"strings"

	"github.com/google/uuid"
)

// StatusCompleted marks a finished schedule entry. Other statuses are free-form.
const StatusCompleted = "COMPLETED"

// Section is the top level of the studio catalog.
type Section struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Order      *int       `json:"order,omitempty" yaml:"order,omitempty"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// Category belongs to exactly one section.
type Category struct {
	ID    uuid.UUID     `json:"id" yaml:"id"`
	Name  string        `json:"name" yaml:"name"`
	Order *int          `json:"order,omitempty" yaml:"order,omitempty"`
	Items []CatalogItem `json:"items" yaml:"items"`
}

// CatalogItem is a single service in the catalog.
type CatalogItem struct {
	ID    uuid.UUID `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Order *int      `json:"order,omitempty" yaml:"order,omitempty"`
}

// ScheduledTask is the mutable schedule entry linked to an order item.
type ScheduledTask struct {
	ID                uuid.UUID    `json:"id" yaml:"id"`
	DurationDays      int          `json:"durationDays" yaml:"durationDays"`
	Category          TaskCategory `json:"category" yaml:"category"`
	CatalogCategoryID *uuid.UUID   `json:"catalogCategoryId,omitempty" yaml:"catalogCategoryId,omitempty"`
	Status            string       `json:"status" yaml:"status"`
	ProgressPercent   *float64     `json:"progressPercent,omitempty" yaml:"progressPercent,omitempty"`
	StartDate         Date         `json:"startDate" yaml:"startDate"`
	EndDate           Date         `json:"endDate" yaml:"endDate"`
	AssignedTo        *uuid.UUID   `json:"assignedTo,omitempty" yaml:"assignedTo,omitempty"`
}

// OrderItem is one approved line of a client order.
type OrderItem struct {
	ID                uuid.UUID      `json:"id" yaml:"id"`
	ItemID            *uuid.UUID     `json:"itemId,omitempty" yaml:"itemId,omitempty"`
	CatalogCategoryID *uuid.UUID     `json:"catalogCategoryId,omitempty" yaml:"catalogCategoryId,omitempty"`
	Name              string         `json:"name" yaml:"name"`
	Task              *ScheduledTask `json:"task,omitempty" yaml:"task,omitempty"`
}

// ManualTask is scheduled work created directly against a job.
type ManualTask struct {
	ID                 uuid.UUID    `json:"id" yaml:"id"`
	Name               string       `json:"name" yaml:"name"`
	DurationDays       int          `json:"durationDays" yaml:"durationDays"`
	Category           TaskCategory `json:"category" yaml:"category"`
	SectionID          *uuid.UUID   `json:"sectionId,omitempty" yaml:"sectionId,omitempty"`
	CatalogCategoryID  *uuid.UUID   `json:"catalogCategoryId,omitempty" yaml:"catalogCategoryId,omitempty"`
	CustomCategoryID   *uuid.UUID   `json:"customCategoryId,omitempty" yaml:"customCategoryId,omitempty"`
	CustomCategoryName string       `json:"customCategoryName,omitempty" yaml:"customCategoryName,omitempty"`
	Status             string       `json:"status" yaml:"status"`
	ProgressPercent    *float64     `json:"progressPercent,omitempty" yaml:"progressPercent,omitempty"`
	StartDate          Date         `json:"startDate" yaml:"startDate"`
	EndDate            Date         `json:"endDate" yaml:"endDate"`
	AssignedTo         *uuid.UUID   `json:"assignedTo,omitempty" yaml:"assignedTo,omitempty"`
}

// CustomCategory is a studio-defined category scoped to one (section, stage).
type CustomCategory struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	SectionID uuid.UUID `json:"sectionId" yaml:"sectionId"`
	Stage     Stage     `json:"stage" yaml:"stage"`
	Name      string    `json:"name" yaml:"name"`
}

// SectionKey identifies a section in the row tree. Catalog sections use their
// id; unclassified work uses the reserved SectionUnclassified value.
type SectionKey string

// SectionUnclassified is the reserved sentinel section collecting every task
// that cannot be resolved to a known catalog category and stage.
const SectionUnclassified SectionKey = "SIN_CATEGORIA"

// UnclassifiedSectionName is the display name of the sentinel section.
const UnclassifiedSectionName = "Sin categoría"

// SectionKeyOf returns the row key for a catalog section id.
func SectionKeyOf(id uuid.UUID) SectionKey {
	return SectionKey(id.String())
}

// IsUnclassified reports whether k is the sentinel.
func (k SectionKey) IsUnclassified() bool {
	return k == SectionUnclassified
}

// SectionID parses the key back into a catalog section id.
func (k SectionKey) SectionID() (uuid.UUID, bool) {
	if k.IsUnclassified() {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(string(k))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// StageKey is a (section, stage) combination.
type StageKey struct {
	SectionID uuid.UUID `json:"sectionId" yaml:"sectionId"`
	Stage     Stage     `json:"stage" yaml:"stage"`
}

// StageKeySet is the set of stage keys that always produce a StageRow.
type StageKeySet map[StageKey]struct{}

// NewStageKeySet builds a set from a list of keys.
func NewStageKeySet(keys ...StageKey) StageKeySet {
	set := make(StageKeySet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Has reports whether the key is present. A nil set has no keys.
func (s StageKeySet) Has(key StageKey) bool {
	_, ok := s[key]
	return ok
}

// CustomCategoriesByKey groups custom categories by their (section, stage),
// preserving input order within each key.
func CustomCategoriesByKey(categories []CustomCategory) map[StageKey][]CustomCategory {
	grouped := make(map[StageKey][]CustomCategory)
	for _, c := range categories {
		key := StageKey{SectionID: c.SectionID, Stage: c.Stage}
		grouped[key] = append(grouped[key], c)
	}
	return grouped
}

// isCompleted applies the completion rule shared by stats and rows.
func isCompleted(status string, progress *float64) bool {
	if strings.EqualFold(strings.TrimSpace(status), StatusCompleted) {
		return true
	}
	return progress != nil && *progress >= 100
}
