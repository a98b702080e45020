package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewCatalogIndexCanonicalOrder(t *testing.T) {
	index := NewCatalogIndex(studioCatalog())

	sections := index.Sections()
	if len(sections) != 2 || sections[0].ID != sectionVideo || sections[1].ID != sectionPhoto {
		t.Fatalf("expected Video before Photography, got %+v", sections)
	}

	categories := index.SectionCategories(sectionPhoto)
	if len(categories) != 2 || categories[0].ID != categoryEditing || categories[1].ID != categoryCapture {
		t.Fatalf("expected Editing before the unordered Capture, got %+v", categories)
	}

	if got, ok := index.SectionOfCategory(categoryCapture); !ok || got != sectionPhoto {
		t.Fatalf("expected Capture to belong to Photography")
	}
	if got, ok := index.CategoryOfItem(itemRetouch); !ok || got != categoryEditing {
		t.Fatalf("expected Retouch to belong to Editing")
	}
	if index.ItemCount() != 4 {
		t.Fatalf("expected 4 items, got %d", index.ItemCount())
	}
}

func TestNewCatalogIndexEmpty(t *testing.T) {
	for _, index := range []*CatalogIndex{nil, NewCatalogIndex(nil)} {
		if len(index.Sections()) != 0 {
			t.Fatalf("expected no sections")
		}
		if index.HasSection(sectionPhoto) {
			t.Fatalf("expected unknown section")
		}
		if _, ok := index.Category(categoryEditing); ok {
			t.Fatalf("expected unknown category")
		}
	}
}

func TestOrderItemsCanonicalOrder(t *testing.T) {
	index := NewCatalogIndex(studioCatalog())
	capture := OrderItem{ID: testID(100), Name: "A", CatalogCategoryID: idPtr(categoryCapture)}
	retouch := OrderItem{ID: testID(101), Name: "B", CatalogCategoryID: idPtr(categoryEditing), ItemID: idPtr(itemRetouch)}
	culling := OrderItem{ID: testID(102), Name: "C", ItemID: idPtr(itemCulling)}
	unknown := OrderItem{ID: testID(103), Name: "D", CatalogCategoryID: idPtr(testID(999))}
	color := OrderItem{ID: testID(104), Name: "E", CatalogCategoryID: idPtr(categoryColor)}
	bare := OrderItem{ID: testID(105), Name: "F"}

	input := []OrderItem{capture, retouch, culling, unknown, color, bare}
	got := OrderItems(index, input)

	want := []uuid.UUID{color.ID, culling.ID, retouch.ID, capture.ID, unknown.ID, bare.ID}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].Name)
		}
	}
	if input[0].ID != capture.ID || input[4].ID != color.ID {
		t.Fatalf("expected input slice to be left untouched")
	}
}

func TestOrderItemsStableForTies(t *testing.T) {
	index := NewCatalogIndex(studioCatalog())
	var items []OrderItem
	for i := 0; i < 6; i++ {
		items = append(items, OrderItem{ID: testID(200 + i), CatalogCategoryID: idPtr(categoryEditing)})
	}

	first := OrderItems(index, items)
	second := OrderItems(index, first)
	for i := range items {
		if first[i].ID != items[i].ID || second[i].ID != items[i].ID {
			t.Fatalf("expected equal-priority items to keep input order at %d", i)
		}
	}
}

func TestOrderItemsWithoutCatalogKeepsInputOrder(t *testing.T) {
	items := []OrderItem{
		{ID: testID(1), CatalogCategoryID: idPtr(categoryEditing)},
		{ID: testID(2)},
		{ID: testID(3), ItemID: idPtr(itemShoot)},
	}
	got := OrderItems(nil, items)
	for i := range items {
		if got[i].ID != items[i].ID {
			t.Fatalf("expected input order without a catalog")
		}
	}
}
