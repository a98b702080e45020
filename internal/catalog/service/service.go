package service

import (
	"context"

	"github.com/google/uuid"

	"studio_backend/internal/catalog/repository"
	"studio_backend/internal/catalog/transport"
	"studio_backend/internal/events"
	"studio_backend/platform/logger"
	"studio_backend/platform/sanitize"
)

// Service provides business logic for catalog.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// ListTree returns the studio catalog with every level in creation order.
// Display order is applied by consumers from SortOrder.
func (s *Service) ListTree(ctx context.Context, studioID uuid.UUID) (transport.CatalogTreeResponse, error) {
	sections, err := s.repo.ListTree(ctx, studioID)
	if err != nil {
		return transport.CatalogTreeResponse{}, err
	}
	return toCatalogTreeResponse(sections), nil
}

// Sections returns the raw catalog tree for other bounded contexts.
func (s *Service) Sections(ctx context.Context, studioID uuid.UUID) ([]repository.Section, error) {
	return s.repo.ListTree(ctx, studioID)
}

// CreateSection creates a new section.
func (s *Service) CreateSection(ctx context.Context, studioID uuid.UUID, req transport.CreateSectionRequest) (transport.SectionResponse, error) {
	section, err := s.repo.CreateSection(ctx, repository.CreateSectionParams{
		StudioID:  studioID,
		Name:      sanitize.Text(req.Name),
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return transport.SectionResponse{}, err
	}

	s.log.Info("catalog section created", "id", section.ID, "name", section.Name)
	s.publishChanged(ctx, studioID, "section.created")
	return toSectionResponse(section), nil
}

// UpdateSection renames or reorders a section.
func (s *Service) UpdateSection(ctx context.Context, studioID, id uuid.UUID, req transport.UpdateSectionRequest) (transport.SectionResponse, error) {
	section, err := s.repo.UpdateSection(ctx, repository.UpdateSectionParams{
		ID:             id,
		StudioID:       studioID,
		Name:           sanitize.TextPtr(req.Name),
		SortOrder:      req.SortOrder,
		ClearSortOrder: req.ClearSortOrder,
	})
	if err != nil {
		return transport.SectionResponse{}, err
	}

	s.publishChanged(ctx, studioID, "section.updated")
	return toSectionResponse(section), nil
}

// CreateCategory creates a category inside a section.
func (s *Service) CreateCategory(ctx context.Context, studioID, sectionID uuid.UUID, req transport.CreateCategoryRequest) (transport.CategoryResponse, error) {
	category, err := s.repo.CreateCategory(ctx, repository.CreateCategoryParams{
		StudioID:  studioID,
		SectionID: sectionID,
		Name:      sanitize.Text(req.Name),
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return transport.CategoryResponse{}, err
	}

	s.log.Info("catalog category created", "id", category.ID, "sectionId", sectionID)
	s.publishChanged(ctx, studioID, "category.created")
	return toCategoryResponse(category), nil
}

// UpdateCategory renames or reorders a category.
func (s *Service) UpdateCategory(ctx context.Context, studioID, id uuid.UUID, req transport.UpdateCategoryRequest) (transport.CategoryResponse, error) {
	category, err := s.repo.UpdateCategory(ctx, repository.UpdateCategoryParams{
		ID:             id,
		StudioID:       studioID,
		Name:           sanitize.TextPtr(req.Name),
		SortOrder:      req.SortOrder,
		ClearSortOrder: req.ClearSortOrder,
	})
	if err != nil {
		return transport.CategoryResponse{}, err
	}

	s.publishChanged(ctx, studioID, "category.updated")
	return toCategoryResponse(category), nil
}

// CreateItem creates an item inside a category.
func (s *Service) CreateItem(ctx context.Context, studioID, categoryID uuid.UUID, req transport.CreateItemRequest) (transport.ItemResponse, error) {
	item, err := s.repo.CreateItem(ctx, repository.CreateItemParams{
		StudioID:   studioID,
		CategoryID: categoryID,
		Name:       sanitize.Text(req.Name),
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}

	s.publishChanged(ctx, studioID, "item.created")
	return toItemResponse(item), nil
}

func (s *Service) publishChanged(ctx context.Context, studioID uuid.UUID, reason string) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, events.CatalogChanged{
		BaseEvent: events.NewBaseEvent(),
		StudioID:  studioID,
		Reason:    reason,
	})
}

func toCatalogTreeResponse(sections []repository.Section) transport.CatalogTreeResponse {
	resp := transport.CatalogTreeResponse{Sections: make([]transport.SectionResponse, 0, len(sections))}
	for _, section := range sections {
		resp.Sections = append(resp.Sections, toSectionResponse(section))
	}
	return resp
}

func toSectionResponse(section repository.Section) transport.SectionResponse {
	resp := transport.SectionResponse{
		ID:         section.ID,
		Name:       section.Name,
		SortOrder:  section.SortOrder,
		Categories: make([]transport.CategoryResponse, 0, len(section.Categories)),
	}
	for _, c := range section.Categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(c))
	}
	return resp
}

func toCategoryResponse(category repository.Category) transport.CategoryResponse {
	resp := transport.CategoryResponse{
		ID:        category.ID,
		SectionID: category.SectionID,
		Name:      category.Name,
		SortOrder: category.SortOrder,
		Items:     make([]transport.ItemResponse, 0, len(category.Items)),
	}
	for _, it := range category.Items {
		resp.Items = append(resp.Items, toItemResponse(it))
	}
	return resp
}

func toItemResponse(item repository.Item) transport.ItemResponse {
	return transport.ItemResponse{
		ID:         item.ID,
		CategoryID: item.CategoryID,
		Name:       item.Name,
		SortOrder:  item.SortOrder,
	}
}
