package transport

import "github.com/google/uuid"

// Sections

type CreateSectionRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	SortOrder *int   `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
}

type UpdateSectionRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	SortOrder      *int    `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
	ClearSortOrder bool    `json:"clearSortOrder,omitempty" validate:"excluded_with=SortOrder"`
}

type SectionResponse struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	SortOrder  *int               `json:"sortOrder"`
	Categories []CategoryResponse `json:"categories"`
}

// Categories

type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	SortOrder *int   `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
}

type UpdateCategoryRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	SortOrder      *int    `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
	ClearSortOrder bool    `json:"clearSortOrder,omitempty" validate:"excluded_with=SortOrder"`
}

type CategoryResponse struct {
	ID        uuid.UUID      `json:"id"`
	SectionID uuid.UUID      `json:"sectionId"`
	Name      string         `json:"name"`
	SortOrder *int           `json:"sortOrder"`
	Items     []ItemResponse `json:"items"`
}

// Items

type CreateItemRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	SortOrder *int   `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
}

type ItemResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"categoryId"`
	Name       string    `json:"name"`
	SortOrder  *int      `json:"sortOrder"`
}

type CatalogTreeResponse struct {
	Sections []SectionResponse `json:"sections"`
}
