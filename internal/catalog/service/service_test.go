package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"studio_backend/internal/catalog/repository"
	"studio_backend/internal/catalog/transport"
	"studio_backend/internal/events"
	"studio_backend/platform/logger"
)

type fakeRepo struct {
	tree    []repository.Section
	created repository.CreateSectionParams
}

func (f *fakeRepo) ListTree(ctx context.Context, studioID uuid.UUID) ([]repository.Section, error) {
	return f.tree, nil
}

func (f *fakeRepo) CreateSection(ctx context.Context, params repository.CreateSectionParams) (repository.Section, error) {
	f.created = params
	return repository.Section{ID: uuid.New(), StudioID: params.StudioID, Name: params.Name, SortOrder: params.SortOrder}, nil
}

func (f *fakeRepo) UpdateSection(ctx context.Context, params repository.UpdateSectionParams) (repository.Section, error) {
	return repository.Section{ID: params.ID}, nil
}

func (f *fakeRepo) CreateCategory(ctx context.Context, params repository.CreateCategoryParams) (repository.Category, error) {
	return repository.Category{ID: uuid.New(), SectionID: params.SectionID, Name: params.Name}, nil
}

func (f *fakeRepo) UpdateCategory(ctx context.Context, params repository.UpdateCategoryParams) (repository.Category, error) {
	return repository.Category{ID: params.ID}, nil
}

func (f *fakeRepo) CreateItem(ctx context.Context, params repository.CreateItemParams) (repository.Item, error) {
	return repository.Item{ID: uuid.New(), CategoryID: params.CategoryID, Name: params.Name}, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func TestListTreeKeepsNesting(t *testing.T) {
	order := 1
	sectionID := uuid.New()
	categoryID := uuid.New()
	repo := &fakeRepo{tree: []repository.Section{{
		ID:        sectionID,
		Name:      "Video",
		SortOrder: &order,
		Categories: []repository.Category{{
			ID:        categoryID,
			SectionID: sectionID,
			Name:      "Color",
			Items:     []repository.Item{{ID: uuid.New(), CategoryID: categoryID, Name: "Grade"}},
		}},
	}}}
	svc := New(repo, nil, logger.New("test"))

	resp, err := svc.ListTree(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Sections) != 1 || len(resp.Sections[0].Categories) != 1 || len(resp.Sections[0].Categories[0].Items) != 1 {
		t.Fatalf("expected nested tree, got %+v", resp)
	}
	if resp.Sections[0].SortOrder == nil || *resp.Sections[0].SortOrder != 1 {
		t.Fatalf("expected sort order to be kept")
	}
}

func TestCreateSectionSanitizesAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := New(repo, bus, logger.New("test"))
	studioID := uuid.New()

	resp, err := svc.CreateSection(context.Background(), studioID, transport.CreateSectionRequest{Name: "  <b>Photo</b>   graphy "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Name != "Photo graphy" || repo.created.Name != "Photo graphy" {
		t.Fatalf("expected sanitized name, got %q", resp.Name)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.events))
	}
	changed, ok := bus.events[0].(events.CatalogChanged)
	if !ok || changed.StudioID != studioID {
		t.Fatalf("expected CatalogChanged for the studio, got %+v", bus.events[0])
	}
}
