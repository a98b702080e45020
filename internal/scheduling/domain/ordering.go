package domain

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// CatalogCategoryOf resolves the catalog category an order item belongs to:
// its denormalized category when the catalog knows it, otherwise the category
// of its catalog item.
func CatalogCategoryOf(index *CatalogIndex, item OrderItem) (uuid.UUID, bool) {
	if id, ok := index.ResolveCategory(item.CatalogCategoryID); ok {
		return id, true
	}
	if item.ItemID != nil {
		return index.CategoryOfItem(*item.ItemID)
	}
	return uuid.Nil, false
}

type orderKeyTuple struct {
	section  int
	category int
	item     int
	position int
}

func (a orderKeyTuple) less(b orderKeyTuple) bool {
	if a.section != b.section {
		return a.section < b.section
	}
	if a.category != b.category {
		return a.category < b.category
	}
	if a.item != b.item {
		return a.item < b.item
	}
	return a.position < b.position
}

// OrderItems returns a new slice with the items in canonical catalog order:
// section rank, then category rank, then item rank, then input position.
// Items the catalog cannot place keep their input order after every placed
// item. The input slice is left untouched.
func OrderItems(index *CatalogIndex, items []OrderItem) []OrderItem {
	keys := make([]orderKeyTuple, len(items))
	perm := make([]int, len(items))
	for i, item := range items {
		perm[i] = i
		key := orderKeyTuple{section: math.MaxInt, category: math.MaxInt, item: math.MaxInt, position: i}
		if categoryID, ok := CatalogCategoryOf(index, item); ok {
			if sRank, cRank, ok := index.categoryPosition(categoryID); ok {
				key.section = sRank
				key.category = cRank
				key.item = index.itemPosition(item.ItemID, categoryID)
			}
		}
		keys[i] = key
	}

	sort.SliceStable(perm, func(i, j int) bool {
		return keys[perm[i]].less(keys[perm[j]])
	})

	out := make([]OrderItem, len(items))
	for i, p := range perm {
		out[i] = items[p]
	}
	return out
}
