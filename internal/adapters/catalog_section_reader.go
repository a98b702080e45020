package adapters

import (
	"context"

	"github.com/google/uuid"

	catrepo "studio_backend/internal/catalog/repository"
	"studio_backend/internal/scheduling/domain"
	"studio_backend/platform/apperr"
)

// CatalogSectionReader adapts the catalog repository for the scheduling
// domain. It returns the raw catalog tree; display ordering is applied by the
// scheduling engine, not here.
type CatalogSectionReader struct {
	repo catrepo.Repository
}

// NewCatalogSectionReader creates a new catalog reader adapter.
func NewCatalogSectionReader(repo catrepo.Repository) *CatalogSectionReader {
	return &CatalogSectionReader{repo: repo}
}

// ListSections returns the studio catalog as scheduling sections.
func (a *CatalogSectionReader) ListSections(ctx context.Context, studioID uuid.UUID) ([]domain.Section, error) {
	tree, err := a.repo.ListTree(ctx, studioID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "catalog unavailable", err).WithOp("catalog.ListTree")
	}

	sections := make([]domain.Section, 0, len(tree))
	for _, s := range tree {
		sections = append(sections, toSchedulingSection(s))
	}
	return sections, nil
}

func toSchedulingSection(s catrepo.Section) domain.Section {
	categories := make([]domain.Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		items := make([]domain.CatalogItem, 0, len(c.Items))
		for _, it := range c.Items {
			items = append(items, domain.CatalogItem{ID: it.ID, Name: it.Name, Order: it.SortOrder})
		}
		categories = append(categories, domain.Category{ID: c.ID, Name: c.Name, Order: c.SortOrder, Items: items})
	}
	return domain.Section{ID: s.ID, Name: s.Name, Order: s.SortOrder, Categories: categories}
}
