package domain

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

func testID(n int) uuid.UUID {
	var u uuid.UUID
	u[0] = 0xAA
	u[14] = byte(n >> 8)
	u[15] = byte(n)
	return u
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

var (
	sectionVideo = testID(1)
	sectionPhoto = testID(2)

	categoryColor   = testID(10)
	categoryEditing = testID(11)
	categoryCapture = testID(12)

	itemColorGrade = testID(20)
	itemRetouch    = testID(21)
	itemCulling    = testID(22)
	itemShoot      = testID(23)
)

// studioCatalog lists Photography before Video in the input but orders Video
// first, and leaves Capture without an explicit order.
func studioCatalog() []Section {
	return []Section{
		{
			ID:    sectionPhoto,
			Name:  "Photography",
			Order: intPtr(1),
			Categories: []Category{
				{ID: categoryCapture, Name: "Capture", Items: []CatalogItem{{ID: itemShoot, Name: "Shoot"}}},
				{
					ID:    categoryEditing,
					Name:  "Editing",
					Order: intPtr(0),
					Items: []CatalogItem{
						{ID: itemRetouch, Name: "Retouch", Order: intPtr(1)},
						{ID: itemCulling, Name: "Culling", Order: intPtr(0)},
					},
				},
			},
		},
		{
			ID:    sectionVideo,
			Name:  "Video",
			Order: intPtr(0),
			Categories: []Category{
				{ID: categoryColor, Name: "Color", Order: intPtr(0), Items: []CatalogItem{{ID: itemColorGrade, Name: "Grade"}}},
			},
		},
	}
}

func scheduled(id uuid.UUID, category TaskCategory) *ScheduledTask {
	return &ScheduledTask{ID: id, DurationDays: 1, Category: category, Status: "PENDING"}
}

// randomJob builds a catalog and a job with a mix of classified, partially
// classified and broken tasks.
func randomJob(seed int64) BuildInput {
	r := rand.New(rand.NewSource(seed))
	next := 1000
	newID := func() uuid.UUID {
		next++
		return testID(next)
	}
	pick := func(ids []uuid.UUID) *uuid.UUID {
		switch {
		case len(ids) == 0 || r.Intn(5) == 0:
			return nil
		case r.Intn(7) == 0:
			return idPtr(newID())
		default:
			return idPtr(ids[r.Intn(len(ids))])
		}
	}
	categories := []TaskCategory{
		CategoryPlanning, CategoryProduction, CategoryPostProduction, CategoryReview,
		CategoryDelivery, CategoryWarranty, CategoryUnassigned, TaskCategory("bogus"),
	}

	var catalog []Section
	var sectionIDs, categoryIDs, itemIDs []uuid.UUID
	for s, n := 0, r.Intn(4); s < n; s++ {
		section := Section{ID: newID(), Name: "section"}
		if r.Intn(3) > 0 {
			section.Order = intPtr(r.Intn(3))
		}
		for c, n := 0, r.Intn(4); c < n; c++ {
			category := Category{ID: newID(), Name: "category"}
			if r.Intn(3) > 0 {
				category.Order = intPtr(r.Intn(3))
			}
			for i, n := 0, r.Intn(3); i < n; i++ {
				item := CatalogItem{ID: newID(), Name: "item"}
				if r.Intn(2) == 0 {
					item.Order = intPtr(r.Intn(3))
				}
				category.Items = append(category.Items, item)
				itemIDs = append(itemIDs, item.ID)
			}
			section.Categories = append(section.Categories, category)
			categoryIDs = append(categoryIDs, category.ID)
		}
		catalog = append(catalog, section)
		sectionIDs = append(sectionIDs, section.ID)
	}
	index := NewCatalogIndex(catalog)

	custom := make(map[StageKey][]CustomCategory)
	var customIDs []uuid.UUID
	known := make(StageKeySet)
	for _, sectionID := range sectionIDs {
		for _, stage := range Stages {
			key := StageKey{SectionID: sectionID, Stage: stage}
			if r.Intn(4) == 0 {
				cc := CustomCategory{ID: newID(), SectionID: sectionID, Stage: stage, Name: "custom"}
				custom[key] = append(custom[key], cc)
				customIDs = append(customIDs, cc.ID)
			}
			if r.Intn(5) == 0 {
				known[key] = struct{}{}
			}
		}
	}

	var items []OrderItem
	for i, n := 0, r.Intn(12); i < n; i++ {
		item := OrderItem{ID: newID(), Name: "order item", ItemID: pick(itemIDs), CatalogCategoryID: pick(categoryIDs)}
		if r.Intn(4) > 0 {
			item.Task = scheduled(newID(), categories[r.Intn(len(categories))])
			item.Task.CatalogCategoryID = pick(categoryIDs)
		}
		items = append(items, item)
	}

	var manual []ManualTask
	for i, n := 0, r.Intn(8); i < n; i++ {
		manual = append(manual, ManualTask{
			ID:                newID(),
			Name:              "manual",
			Category:          categories[r.Intn(len(categories))],
			SectionID:         pick(sectionIDs),
			CatalogCategoryID: pick(categoryIDs),
			CustomCategoryID:  pick(customIDs),
		})
	}

	return BuildInput{
		Catalog:          index,
		Items:            OrderItems(index, items),
		ManualTasks:      manual,
		KnownStages:      known,
		CustomCategories: custom,
		Options:          RowOptions{AddTaskPhantoms: r.Intn(2) == 0, AddCategoryPhantoms: r.Intn(2) == 0},
	}
}

func rowKeys(rows []Row) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key()
	}
	return keys
}

func assertSameRows(t *testing.T, got, want []Row) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d\nwant %v\ngot  %v", len(want), len(got), rowKeys(want), rowKeys(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d differs: want %s, got %s", i, want[i].Key(), got[i].Key())
		}
	}
}
