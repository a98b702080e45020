package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio_backend/platform/apperr"
)

const (
	sectionNotFoundMessage  = "catalog section not found"
	categoryNotFoundMessage = "catalog category not found"
)

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListTree loads the whole catalog of a studio in three queries and nests it.
func (r *Repo) ListTree(ctx context.Context, studioID uuid.UUID) ([]Section, error) {
	sections, err := r.listSections(ctx, studioID)
	if err != nil {
		return nil, err
	}
	categories, err := r.listCategories(ctx, studioID)
	if err != nil {
		return nil, err
	}
	items, err := r.listItems(ctx, studioID)
	if err != nil {
		return nil, err
	}

	itemsByCategory := make(map[uuid.UUID][]Item)
	for _, it := range items {
		itemsByCategory[it.CategoryID] = append(itemsByCategory[it.CategoryID], it)
	}
	categoriesBySection := make(map[uuid.UUID][]Category)
	for _, c := range categories {
		c.Items = itemsByCategory[c.ID]
		categoriesBySection[c.SectionID] = append(categoriesBySection[c.SectionID], c)
	}
	for i := range sections {
		sections[i].Categories = categoriesBySection[sections[i].ID]
	}
	return sections, nil
}

func (r *Repo) listSections(ctx context.Context, studioID uuid.UUID) ([]Section, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, studio_id, name, sort_order
		FROM catalog_sections
		WHERE studio_id = $1
		ORDER BY created_at, id`, studioID)
	if err != nil {
		return nil, fmt.Errorf("list catalog sections: %w", err)
	}
	defer rows.Close()

	sections := make([]Section, 0)
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.StudioID, &s.Name, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("scan catalog section: %w", err)
		}
		sections = append(sections, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate catalog sections: %w", rows.Err())
	}
	return sections, nil
}

func (r *Repo) listCategories(ctx context.Context, studioID uuid.UUID) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, section_id, name, sort_order
		FROM catalog_categories
		WHERE studio_id = $1
		ORDER BY created_at, id`, studioID)
	if err != nil {
		return nil, fmt.Errorf("list catalog categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.SectionID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan catalog category: %w", err)
		}
		categories = append(categories, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate catalog categories: %w", rows.Err())
	}
	return categories, nil
}

func (r *Repo) listItems(ctx context.Context, studioID uuid.UUID) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, name, sort_order
		FROM catalog_items
		WHERE studio_id = $1
		ORDER BY created_at, id`, studioID)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", rows.Err())
	}
	return items, nil
}

// CreateSection creates a section.
func (r *Repo) CreateSection(ctx context.Context, params CreateSectionParams) (Section, error) {
	query := `
		INSERT INTO catalog_sections (studio_id, name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id, studio_id, name, sort_order`

	var s Section
	if err := r.pool.QueryRow(ctx, query, params.StudioID, params.Name, params.SortOrder).Scan(
		&s.ID, &s.StudioID, &s.Name, &s.SortOrder,
	); err != nil {
		return Section{}, fmt.Errorf("create catalog section: %w", err)
	}
	return s, nil
}

// UpdateSection renames or reorders a section.
func (r *Repo) UpdateSection(ctx context.Context, params UpdateSectionParams) (Section, error) {
	query := `
		UPDATE catalog_sections
		SET name = COALESCE($3, name),
			sort_order = CASE WHEN $5 THEN NULL ELSE COALESCE($4, sort_order) END
		WHERE id = $1 AND studio_id = $2
		RETURNING id, studio_id, name, sort_order`

	var s Section
	if err := r.pool.QueryRow(ctx, query,
		params.ID, params.StudioID, params.Name, params.SortOrder, params.ClearSortOrder,
	).Scan(&s.ID, &s.StudioID, &s.Name, &s.SortOrder); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Section{}, apperr.NotFound(sectionNotFoundMessage)
		}
		return Section{}, fmt.Errorf("update catalog section: %w", err)
	}
	return s, nil
}

// CreateCategory creates a category under a section of the same studio.
func (r *Repo) CreateCategory(ctx context.Context, params CreateCategoryParams) (Category, error) {
	query := `
		INSERT INTO catalog_categories (studio_id, section_id, name, sort_order)
		SELECT $1, s.id, $3, $4
		FROM catalog_sections s
		WHERE s.id = $2 AND s.studio_id = $1
		RETURNING id, section_id, name, sort_order`

	var c Category
	if err := r.pool.QueryRow(ctx, query, params.StudioID, params.SectionID, params.Name, params.SortOrder).Scan(
		&c.ID, &c.SectionID, &c.Name, &c.SortOrder,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(sectionNotFoundMessage)
		}
		return Category{}, fmt.Errorf("create catalog category: %w", err)
	}
	return c, nil
}

// UpdateCategory renames or reorders a category.
func (r *Repo) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (Category, error) {
	query := `
		UPDATE catalog_categories
		SET name = COALESCE($3, name),
			sort_order = CASE WHEN $5 THEN NULL ELSE COALESCE($4, sort_order) END
		WHERE id = $1 AND studio_id = $2
		RETURNING id, section_id, name, sort_order`

	var c Category
	if err := r.pool.QueryRow(ctx, query,
		params.ID, params.StudioID, params.Name, params.SortOrder, params.ClearSortOrder,
	).Scan(&c.ID, &c.SectionID, &c.Name, &c.SortOrder); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Category{}, fmt.Errorf("update catalog category: %w", err)
	}
	return c, nil
}

// CreateItem creates an item under a category of the same studio.
func (r *Repo) CreateItem(ctx context.Context, params CreateItemParams) (Item, error) {
	query := `
		INSERT INTO catalog_items (studio_id, category_id, name, sort_order)
		SELECT $1, c.id, $3, $4
		FROM catalog_categories c
		WHERE c.id = $2 AND c.studio_id = $1
		RETURNING id, category_id, name, sort_order`

	var it Item
	if err := r.pool.QueryRow(ctx, query, params.StudioID, params.CategoryID, params.Name, params.SortOrder).Scan(
		&it.ID, &it.CategoryID, &it.Name, &it.SortOrder,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Item{}, fmt.Errorf("create catalog item: %w", err)
	}
	return it, nil
}
