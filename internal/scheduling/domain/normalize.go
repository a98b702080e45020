package domain

import "github.com/google/uuid"

// TaskSource tells whether a task is backed by an order item or was created
// manually against the job.
type TaskSource string

const (
	SourceOrderItem TaskSource = "ORDER_ITEM"
	SourceManual    TaskSource = "MANUAL"
)

// SlotKind is the kind of category a task is placed under within its stage.
type SlotKind string

const (
	SlotCatalog       SlotKind = "CATALOG"
	SlotCustom        SlotKind = "CUSTOM"
	SlotUncategorized SlotKind = "UNCATEGORIZED"
)

// Slot is the category position of a task within a (section, stage).
// ID is uuid.Nil for the uncategorized bucket.
type Slot struct {
	Kind SlotKind
	ID   uuid.UUID
}

var uncategorizedSlot = Slot{Kind: SlotUncategorized}

// Task is the uniform view of an order item or a manual task that the row
// builder, classification and stats work on. Optional ids are uuid.Nil when
// absent so that tasks built from the same input compare equal.
type Task struct {
	Source TaskSource
	// ID is the order item id or the manual task id.
	ID uuid.UUID
	// ScheduleID is the schedule entry id; uuid.Nil when an order item was
	// never synced into the schedule.
	ScheduleID uuid.UUID
	Name       string

	Category TaskCategory
	Stage    Stage
	HasStage bool

	// CatalogCategoryID is the effective catalog category, set only when it
	// resolves against the catalog.
	CatalogCategoryID uuid.UUID
	CustomCategoryID  uuid.UUID

	Section   SectionKey
	StageSlot Stage
	Slot      Slot

	Scheduled    bool
	Status       string
	Progress     *float64
	StartDate    Date
	EndDate      Date
	AssignedTo   *uuid.UUID
	DurationDays int

	// Position is the index in the input the task was normalized from.
	Position int
}

// Completed applies the completion rule: status COMPLETED or progress >= 100.
func (t Task) Completed() bool {
	return t.Scheduled && isCompleted(t.Status, t.Progress)
}

// Classified reports whether the task has a stage and a resolvable category.
func (t Task) Classified() bool {
	return t.HasStage && (t.CatalogCategoryID != uuid.Nil || t.CustomCategoryID != uuid.Nil)
}

// StageKey returns the (section, stage) pair the task was placed under.
// The second result is false for sentinel placements.
func (t Task) StageKey() (StageKey, bool) {
	sectionID, ok := t.Section.SectionID()
	if !ok {
		return StageKey{}, false
	}
	return StageKey{SectionID: sectionID, Stage: t.StageSlot}, true
}

// NormalizeOrderItem converts an order item and its optional schedule entry.
// The item is placed in a catalog section only when both its stage and its
// catalog category resolve; anything else goes to the sentinel.
func NormalizeOrderItem(index *CatalogIndex, item OrderItem, position int) Task {
	t := Task{
		Source:   SourceOrderItem,
		ID:       item.ID,
		Name:     item.Name,
		Category: CategoryUnassigned,
		Position: position,
	}

	var chosen *uuid.UUID
	if item.Task != nil {
		st := item.Task
		t.ScheduleID = st.ID
		t.Scheduled = true
		t.Category = ParseTaskCategory(string(st.Category))
		t.Status = st.Status
		t.Progress = st.ProgressPercent
		t.StartDate = st.StartDate
		t.EndDate = st.EndDate
		t.AssignedTo = st.AssignedTo
		t.DurationDays = st.DurationDays
		chosen = st.CatalogCategoryID
	}
	t.Stage, t.HasStage = NormalizeStage(t.Category)

	categoryID, ok := index.ResolveCategory(chosen)
	if !ok {
		categoryID, ok = CatalogCategoryOf(index, item)
	}
	if ok {
		t.CatalogCategoryID = categoryID
	}

	if t.HasStage && ok {
		sectionID, _ := index.SectionOfCategory(categoryID)
		t.Section = SectionKeyOf(sectionID)
		t.StageSlot = t.Stage
		t.Slot = Slot{Kind: SlotCatalog, ID: categoryID}
		return t
	}

	t.placeInSentinel()
	return t
}

// NormalizeManualTask converts a manual task. Placement falls through, in
// order: a custom category valid for its (section, stage), a resolvable
// catalog category, the uncategorized bucket of a known section, and finally
// the sentinel. A task without a stage always lands in the sentinel.
func NormalizeManualTask(index *CatalogIndex, custom map[StageKey][]CustomCategory, m ManualTask, position int) Task {
	t := Task{
		Source:       SourceManual,
		ID:           m.ID,
		Name:         m.Name,
		Category:     ParseTaskCategory(string(m.Category)),
		Scheduled:    true,
		Status:       m.Status,
		Progress:     m.ProgressPercent,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		AssignedTo:   m.AssignedTo,
		DurationDays: m.DurationDays,
		Position:     position,
	}
	t.ScheduleID = m.ID
	t.Stage, t.HasStage = NormalizeStage(t.Category)

	categoryID, hasCategory := index.ResolveCategory(m.CatalogCategoryID)
	if hasCategory {
		t.CatalogCategoryID = categoryID
	}

	if !t.HasStage {
		t.placeInSentinel()
		return t
	}

	if m.SectionID != nil && m.CustomCategoryID != nil && index.HasSection(*m.SectionID) {
		key := StageKey{SectionID: *m.SectionID, Stage: t.Stage}
		for _, cc := range custom[key] {
			if cc.ID == *m.CustomCategoryID {
				t.CustomCategoryID = cc.ID
				t.Section = SectionKeyOf(*m.SectionID)
				t.StageSlot = t.Stage
				t.Slot = Slot{Kind: SlotCustom, ID: cc.ID}
				return t
			}
		}
	}

	if hasCategory {
		sectionID, _ := index.SectionOfCategory(categoryID)
		t.Section = SectionKeyOf(sectionID)
		t.StageSlot = t.Stage
		t.Slot = Slot{Kind: SlotCatalog, ID: categoryID}
		return t
	}

	if m.SectionID != nil && index.HasSection(*m.SectionID) {
		t.Section = SectionKeyOf(*m.SectionID)
		t.StageSlot = t.Stage
		t.Slot = uncategorizedSlot
		return t
	}

	t.placeInSentinel()
	return t
}

func (t *Task) placeInSentinel() {
	t.Section = SectionUnclassified
	t.Slot = uncategorizedSlot
	if t.HasStage {
		t.StageSlot = t.Stage
	} else {
		t.StageSlot = StagePending
	}
}
