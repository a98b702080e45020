package domain

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// CatalogIndex is a read-only view of the studio catalog with constant-time
// lookups and precomputed canonical ranks.
type CatalogIndex struct {
	sections []indexedSection

	sectionRank     map[uuid.UUID]int
	categoryRank    map[uuid.UUID]int
	categorySection map[uuid.UUID]uuid.UUID
	categories      map[uuid.UUID]Category
	itemRank        map[uuid.UUID]int
	itemCategory    map[uuid.UUID]uuid.UUID
}

type indexedSection struct {
	section    Section
	categories []Category
}

// NewCatalogIndex indexes the catalog. A nil or empty catalog is valid and
// yields an index with no known sections.
func NewCatalogIndex(sections []Section) *CatalogIndex {
	idx := &CatalogIndex{
		sectionRank:     make(map[uuid.UUID]int),
		categoryRank:    make(map[uuid.UUID]int),
		categorySection: make(map[uuid.UUID]uuid.UUID),
		categories:      make(map[uuid.UUID]Category),
		itemRank:        make(map[uuid.UUID]int),
		itemCategory:    make(map[uuid.UUID]uuid.UUID),
	}

	orderedSections := sortByOrder(sections, func(s Section) *int { return s.Order })
	categoryPos := 0
	for sRank, section := range orderedSections {
		if _, dup := idx.sectionRank[section.ID]; dup {
			continue
		}
		idx.sectionRank[section.ID] = sRank

		orderedCategories := sortByOrder(section.Categories, func(c Category) *int { return c.Order })
		kept := make([]Category, 0, len(orderedCategories))
		for _, category := range orderedCategories {
			if _, dup := idx.categories[category.ID]; dup {
				continue
			}
			idx.categoryRank[category.ID] = categoryPos
			categoryPos++
			idx.categorySection[category.ID] = section.ID
			idx.categories[category.ID] = category
			kept = append(kept, category)

			orderedItems := sortByOrder(category.Items, func(i CatalogItem) *int { return i.Order })
			for iRank, item := range orderedItems {
				if _, dup := idx.itemCategory[item.ID]; dup {
					continue
				}
				idx.itemRank[item.ID] = iRank
				idx.itemCategory[item.ID] = category.ID
			}
		}

		idx.sections = append(idx.sections, indexedSection{section: section, categories: kept})
	}

	return idx
}

// sortByOrder returns a copy sorted by the nullable order field. Null orders
// sort after set ones; ties keep array position.
func sortByOrder[T any](values []T, order func(T) *int) []T {
	out := make([]T, len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool {
		return orderKey(order(out[i])) < orderKey(order(out[j]))
	})
	return out
}

func orderKey(order *int) int {
	if order == nil {
		return math.MaxInt
	}
	return *order
}

// Sections returns the catalog sections in canonical order.
func (c *CatalogIndex) Sections() []Section {
	if c == nil {
		return nil
	}
	out := make([]Section, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.section
	}
	return out
}

// SectionCategories returns the categories of a section in canonical order.
func (c *CatalogIndex) SectionCategories(sectionID uuid.UUID) []Category {
	if c == nil {
		return nil
	}
	rank, ok := c.sectionRank[sectionID]
	if !ok {
		return nil
	}
	return c.sections[rank].categories
}

// HasSection reports whether the section exists in the catalog.
func (c *CatalogIndex) HasSection(sectionID uuid.UUID) bool {
	if c == nil {
		return false
	}
	_, ok := c.sectionRank[sectionID]
	return ok
}

// Category looks up a category by id.
func (c *CatalogIndex) Category(id uuid.UUID) (Category, bool) {
	if c == nil {
		return Category{}, false
	}
	category, ok := c.categories[id]
	return category, ok
}

// SectionOfCategory returns the section owning the category.
func (c *CatalogIndex) SectionOfCategory(categoryID uuid.UUID) (uuid.UUID, bool) {
	if c == nil {
		return uuid.Nil, false
	}
	sectionID, ok := c.categorySection[categoryID]
	return sectionID, ok
}

// CategoryOfItem returns the category owning a catalog item.
func (c *CatalogIndex) CategoryOfItem(itemID uuid.UUID) (uuid.UUID, bool) {
	if c == nil {
		return uuid.Nil, false
	}
	categoryID, ok := c.itemCategory[itemID]
	return categoryID, ok
}

// ResolveCategory returns the first of the candidate ids that is a known
// category.
func (c *CatalogIndex) ResolveCategory(candidates ...*uuid.UUID) (uuid.UUID, bool) {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if _, ok := c.Category(*candidate); ok {
			return *candidate, true
		}
	}
	return uuid.Nil, false
}

func (c *CatalogIndex) categoryPosition(categoryID uuid.UUID) (int, int, bool) {
	if c == nil {
		return 0, 0, false
	}
	sectionID, ok := c.categorySection[categoryID]
	if !ok {
		return 0, 0, false
	}
	return c.sectionRank[sectionID], c.categoryRank[categoryID], true
}

func (c *CatalogIndex) itemPosition(itemID *uuid.UUID, categoryID uuid.UUID) int {
	if c == nil || itemID == nil {
		return math.MaxInt
	}
	owner, ok := c.itemCategory[*itemID]
	if !ok || owner != categoryID {
		return math.MaxInt
	}
	return c.itemRank[*itemID]
}

// ItemCount is the number of catalog items across all categories.
func (c *CatalogIndex) ItemCount() int {
	if c == nil {
		return 0
	}
	return len(c.itemCategory)
}
