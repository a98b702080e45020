package domain

import "github.com/google/uuid"

// RowOptions controls which affordance rows are emitted.
type RowOptions struct {
	AddTaskPhantoms     bool `json:"addTaskPhantoms" yaml:"addTaskPhantoms"`
	AddCategoryPhantoms bool `json:"addCategoryPhantoms" yaml:"addCategoryPhantoms"`
}

// BuildInput is everything BuildSchedulerRows reads. Items must already be in
// canonical order (see OrderItems); manual tasks are in creation order.
type BuildInput struct {
	Catalog          *CatalogIndex
	Items            []OrderItem
	ManualTasks      []ManualTask
	KnownStages      StageKeySet
	CustomCategories map[StageKey][]CustomCategory
	Options          RowOptions
}

type bucketKey struct {
	section SectionKey
	stage   Stage
	slot    Slot
}

type stageTally struct {
	count int
	alert bool
}

// placement indexes the normalized tasks by where they land in the tree.
type placement struct {
	buckets  map[bucketKey][]Row
	stages   map[StageKey]stageTally
	sections map[SectionKey]stageTally
	sentinel map[Stage]stageTally
}

func (p *placement) add(t Task, row Row) {
	alert := !t.Classified()
	key := bucketKey{section: t.Section, stage: t.StageSlot, slot: t.Slot}
	p.buckets[key] = append(p.buckets[key], row)

	st := p.sections[t.Section]
	st.count++
	st.alert = st.alert || alert
	p.sections[t.Section] = st

	if t.Section.IsUnclassified() {
		tally := p.sentinel[t.StageSlot]
		tally.count++
		tally.alert = true
		p.sentinel[t.StageSlot] = tally
		return
	}
	sk, _ := t.StageKey()
	tally := p.stages[sk]
	tally.count++
	tally.alert = tally.alert || alert
	p.stages[sk] = tally
}

func (p *placement) bucket(section SectionKey, stage Stage, slot Slot) []Row {
	return p.buckets[bucketKey{section: section, stage: stage, slot: slot}]
}

// NormalizeAll normalizes order items then manual tasks, in input order.
func NormalizeAll(index *CatalogIndex, items []OrderItem, manual []ManualTask, custom map[StageKey][]CustomCategory) []Task {
	tasks := make([]Task, 0, len(items)+len(manual))
	for i, item := range items {
		tasks = append(tasks, NormalizeOrderItem(index, item, i))
	}
	for i, m := range manual {
		tasks = append(tasks, NormalizeManualTask(index, custom, m, i))
	}
	return tasks
}

// BuildSchedulerRows produces the flat row tree:
//
//	Section → Stage → Category → Task
//
// Catalog sections come in canonical order followed by the SIN_CATEGORIA
// sentinel, which is always present. Within a stage, catalog categories with
// tasks come first, then every custom category of the (section, stage), then
// the uncategorized bucket when it holds tasks. Catalog-backed tasks precede
// manual tasks inside a category. Every input task appears exactly once.
func BuildSchedulerRows(in BuildInput) []Row {
	p := &placement{
		buckets:  make(map[bucketKey][]Row),
		stages:   make(map[StageKey]stageTally),
		sections: make(map[SectionKey]stageTally),
		sentinel: make(map[Stage]stageTally),
	}
	for i, item := range in.Items {
		t := NormalizeOrderItem(in.Catalog, item, i)
		p.add(t, TaskRow{Item: item, Task: t})
	}
	for i, m := range in.ManualTasks {
		t := NormalizeManualTask(in.Catalog, in.CustomCategories, m, i)
		p.add(t, ManualTaskRow{Manual: m, Task: t})
	}

	var rows []Row
	for _, section := range in.Catalog.Sections() {
		rows = appendCatalogSection(rows, in, p, section)
	}
	return appendSentinel(rows, p)
}

func appendCatalogSection(rows []Row, in BuildInput, p *placement, section Section) []Row {
	key := SectionKeyOf(section.ID)
	tally := p.sections[key]
	rows = append(rows, SectionRow{Section: key, Name: section.Name, TaskCount: tally.count, NeedsAlert: tally.alert})

	categories := in.Catalog.SectionCategories(section.ID)
	for _, stage := range Stages {
		sk := StageKey{SectionID: section.ID, Stage: stage}
		custom := in.CustomCategories[sk]
		st := p.stages[sk]
		if st.count == 0 && !in.KnownStages.Has(sk) && len(custom) == 0 {
			continue
		}
		rows = append(rows, StageRow{Section: key, Stage: stage, TaskCount: st.count, NeedsAlert: st.alert})

		for _, category := range categories {
			slot := Slot{Kind: SlotCatalog, ID: category.ID}
			tasks := p.bucket(key, stage, slot)
			if len(tasks) == 0 {
				continue
			}
			rows = appendCategory(rows, in.Options, key, stage, slot, category.Name, tasks)
		}
		seen := make(map[uuid.UUID]struct{}, len(custom))
		for _, cc := range custom {
			if _, dup := seen[cc.ID]; dup {
				continue
			}
			seen[cc.ID] = struct{}{}
			slot := Slot{Kind: SlotCustom, ID: cc.ID}
			rows = appendCategory(rows, in.Options, key, stage, slot, cc.Name, p.bucket(key, stage, slot))
		}
		if tasks := p.bucket(key, stage, uncategorizedSlot); len(tasks) > 0 {
			rows = appendCategory(rows, in.Options, key, stage, uncategorizedSlot, "", tasks)
		}

		if in.Options.AddCategoryPhantoms {
			rows = append(rows, AddCategoryPhantomRow{Section: key, Stage: stage})
		}
	}
	return rows
}

func appendCategory(rows []Row, opts RowOptions, section SectionKey, stage Stage, slot Slot, name string, tasks []Row) []Row {
	alert := slot.Kind == SlotUncategorized && len(tasks) > 0
	rows = append(rows, CategoryRow{
		Section:    section,
		Stage:      stage,
		SlotKind:   slot.Kind,
		CategoryID: slot.ID,
		Name:       name,
		TaskCount:  len(tasks),
		NeedsAlert: alert || anyNeedsAlert(tasks),
	})
	rows = append(rows, tasks...)
	if opts.AddTaskPhantoms {
		rows = append(rows, AddTaskPhantomRow{
			Section:    section,
			Stage:      stage,
			SlotKind:   slot.Kind,
			CategoryID: slot.ID,
		})
	}
	return rows
}

func appendSentinel(rows []Row, p *placement) []Row {
	tally := p.sections[SectionUnclassified]
	rows = append(rows, SectionRow{
		Section:    SectionUnclassified,
		Name:       UnclassifiedSectionName,
		TaskCount:  tally.count,
		NeedsAlert: true,
	})
	for _, stage := range append(Stages[:len(Stages):len(Stages)], StagePending) {
		st := p.sentinel[stage]
		if st.count == 0 {
			continue
		}
		tasks := p.bucket(SectionUnclassified, stage, uncategorizedSlot)
		rows = append(rows,
			StageRow{Section: SectionUnclassified, Stage: stage, TaskCount: st.count, NeedsAlert: true},
			CategoryRow{Section: SectionUnclassified, Stage: stage, SlotKind: SlotUncategorized, TaskCount: len(tasks), NeedsAlert: true},
		)
		rows = append(rows, tasks...)
	}
	return rows
}

func anyNeedsAlert(rows []Row) bool {
	for _, r := range rows {
		if t, ok := LeafTask(r); ok && !t.Classified() {
			return true
		}
	}
	return false
}

// TaskCategoryName returns the display name of the category a task sits in,
// looking up catalog and custom categories.
func TaskCategoryName(index *CatalogIndex, custom map[StageKey][]CustomCategory, t Task) string {
	switch t.Slot.Kind {
	case SlotCatalog:
		if c, ok := index.Category(t.Slot.ID); ok {
			return c.Name
		}
	case SlotCustom:
		if sk, ok := t.StageKey(); ok {
			for _, cc := range custom[sk] {
				if cc.ID == t.Slot.ID {
					return cc.Name
				}
			}
		}
	}
	return ""
}

// CustomCategoryIndex flattens custom categories by id.
func CustomCategoryIndex(custom map[StageKey][]CustomCategory) map[uuid.UUID]CustomCategory {
	out := make(map[uuid.UUID]CustomCategory)
	for _, list := range custom {
		for _, cc := range list {
			out[cc.ID] = cc
		}
	}
	return out
}
