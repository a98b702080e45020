package repository

import (
	"context"

	"github.com/google/uuid"
)

// Section is a top-level catalog grouping (e.g. "Photography").
type Section struct {
	ID         uuid.UUID `db:"id"`
	StudioID   uuid.UUID `db:"studio_id"`
	Name       string    `db:"name"`
	SortOrder  *int      `db:"sort_order"`
	Categories []Category
}

// Category belongs to exactly one section.
type Category struct {
	ID        uuid.UUID `db:"id"`
	SectionID uuid.UUID `db:"section_id"`
	Name      string    `db:"name"`
	SortOrder *int      `db:"sort_order"`
	Items     []Item
}

// Item is a single sellable service.
type Item struct {
	ID         uuid.UUID `db:"id"`
	CategoryID uuid.UUID `db:"category_id"`
	Name       string    `db:"name"`
	SortOrder  *int      `db:"sort_order"`
}

// CreateSectionParams contains data for creating a section.
type CreateSectionParams struct {
	StudioID  uuid.UUID
	Name      string
	SortOrder *int
}

// UpdateSectionParams contains data for updating a section.
// ClearSortOrder moves the section to the end of the unordered group.
type UpdateSectionParams struct {
	ID             uuid.UUID
	StudioID       uuid.UUID
	Name           *string
	SortOrder      *int
	ClearSortOrder bool
}

// CreateCategoryParams contains data for creating a category.
type CreateCategoryParams struct {
	StudioID  uuid.UUID
	SectionID uuid.UUID
	Name      string
	SortOrder *int
}

// UpdateCategoryParams contains data for updating a category.
type UpdateCategoryParams struct {
	ID             uuid.UUID
	StudioID       uuid.UUID
	Name           *string
	SortOrder      *int
	ClearSortOrder bool
}

// CreateItemParams contains data for creating an item.
type CreateItemParams struct {
	StudioID   uuid.UUID
	CategoryID uuid.UUID
	Name       string
	SortOrder  *int
}

// Repository defines catalog storage operations.
type Repository interface {
	// ListTree returns every section of the studio with its categories and
	// items nested, each level in creation order.
	ListTree(ctx context.Context, studioID uuid.UUID) ([]Section, error)

	CreateSection(ctx context.Context, params CreateSectionParams) (Section, error)
	UpdateSection(ctx context.Context, params UpdateSectionParams) (Section, error)
	CreateCategory(ctx context.Context, params CreateCategoryParams) (Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (Category, error)
	CreateItem(ctx context.Context, params CreateItemParams) (Item, error)
}
