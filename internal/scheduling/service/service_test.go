package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/events"
	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/repository"
	"studio_backend/internal/scheduling/transport"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
)

var (
	studioID    = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	jobID       = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	sectionID   = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	categoryID  = uuid.MustParse("00000000-0000-0000-0000-0000000000d1")
	orderItemID = uuid.MustParse("00000000-0000-0000-0000-0000000000e1")
)

type testConfig struct {
	ttl time.Duration
}

func (c testConfig) GetStructureCacheTTL() time.Duration { return c.ttl }
func (c testConfig) GetStructureCacheSize() int          { return 16 }
func (c testConfig) GetStudioTimezone() *time.Location   { return time.UTC }

type fakeCatalog struct {
	sections []domain.Section
	err      error
	calls    atomic.Int32
	hook     func(ctx context.Context) error
}

func (f *fakeCatalog) ListSections(ctx context.Context, studioID uuid.UUID) ([]domain.Section, error) {
	f.calls.Add(1)
	if f.hook != nil {
		if err := f.hook(ctx); err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.sections, nil
}

type fakeRepo struct {
	mu           sync.Mutex
	detail       repository.JobDetail
	custom       []domain.CustomCategory
	detailCalls  int
	reclassified []uuid.UUID
	syncResults  []domain.SyncResult

	reclassifyHook func(ctx context.Context, params repository.ReclassifyParams) error
	syncHook       func(ctx context.Context) error
}

func (f *fakeRepo) GetJobDetail(ctx context.Context, studioID, jobID uuid.UUID) (repository.JobDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	return f.detail, nil
}

func (f *fakeRepo) ListFleetSchedules(ctx context.Context, studioID uuid.UUID) ([]domain.JobSchedule, error) {
	return []domain.JobSchedule{{JobID: f.detail.JobID, Name: f.detail.Name, OrderItems: f.detail.OrderItems}}, nil
}

func (f *fakeRepo) SyncTasksFromOrder(ctx context.Context, studioID, jobID uuid.UUID, trigger string) (domain.SyncResult, error) {
	if f.syncHook != nil {
		if err := f.syncHook(ctx); err != nil {
			return domain.SyncResult{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.syncResults) == 0 {
		return domain.SyncResult{}, nil
	}
	result := f.syncResults[0]
	f.syncResults = f.syncResults[1:]
	return result, nil
}

func (f *fakeRepo) ListJobsNeedingSync(ctx context.Context, limit int) ([]repository.JobRef, error) {
	return []repository.JobRef{{StudioID: studioID, JobID: jobID}}, nil
}

func (f *fakeRepo) ListSyncRuns(ctx context.Context, studioID, jobID uuid.UUID, limit int) ([]repository.SyncRun, error) {
	return nil, nil
}

func (f *fakeRepo) DeleteSyncRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) ReclassifyTask(ctx context.Context, params repository.ReclassifyParams) (repository.ReclassifiedTask, error) {
	if f.reclassifyHook != nil {
		if err := f.reclassifyHook(ctx, params); err != nil {
			return repository.ReclassifiedTask{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reclassified = append(f.reclassified, params.CatalogCategoryID)
	return repository.ReclassifiedTask{
		TaskID:            params.TaskID,
		Source:            domain.SourceOrderItem,
		Category:          domain.CategoryForStage(params.Stage),
		CatalogCategoryID: params.CatalogCategoryID,
	}, nil
}

func (f *fakeRepo) CreateManualTask(ctx context.Context, params repository.ManualTaskParams) (domain.ManualTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := domain.ManualTask{
		ID:               uuid.New(),
		Name:             params.Name,
		DurationDays:     params.DurationDays,
		Category:         params.Category,
		SectionID:        params.SectionID,
		CustomCategoryID: params.CustomCategoryID,
	}
	f.detail.ManualTasks = append(f.detail.ManualTasks, m)
	return m, nil
}

func (f *fakeRepo) UpdateManualTask(ctx context.Context, id uuid.UUID, params repository.ManualTaskParams) (domain.ManualTask, error) {
	return domain.ManualTask{ID: id, Name: params.Name}, nil
}

func (f *fakeRepo) DeleteManualTask(ctx context.Context, studioID, jobID, id uuid.UUID) error {
	return nil
}

func (f *fakeRepo) AddStageKey(ctx context.Context, studioID, jobID uuid.UUID, key domain.StageKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detail.StageKeys = append(f.detail.StageKeys, key)
	return nil
}

func (f *fakeRepo) ListCustomCategories(ctx context.Context, studioID uuid.UUID) ([]domain.CustomCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.custom, nil
}

func (f *fakeRepo) CreateCustomCategory(ctx context.Context, params repository.CreateCustomCategoryParams) (domain.CustomCategory, error) {
	c := domain.CustomCategory{ID: uuid.New(), SectionID: params.SectionID, Stage: params.Stage, Name: params.Name}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.custom = append(f.custom, c)
	return c, nil
}

func (f *fakeRepo) RenameCustomCategory(ctx context.Context, studioID, id uuid.UUID, name string) (domain.CustomCategory, error) {
	return domain.CustomCategory{ID: id, Name: name}, nil
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

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.events))
	for _, e := range b.events {
		names = append(names, e.EventName())
	}
	return names
}

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	catalog *fakeCatalog
	bus     *recordingBus
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := &fakeRepo{
		detail: repository.JobDetail{
			JobID: jobID,
			Name:  "Wedding",
			OrderItems: []domain.OrderItem{
				{ID: orderItemID, Name: "Color grade"},
			},
		},
	}
	catalog := &fakeCatalog{
		sections: []domain.Section{{
			ID:         sectionID,
			Name:       "Video",
			Categories: []domain.Category{{ID: categoryID, Name: "Color"}},
		}},
	}
	bus := &recordingBus{}
	svc := New(repo, catalog, bus, testConfig{ttl: time.Minute}, logger.New("development"))
	svc.SetClock(func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) })
	return fixture{svc: svc, repo: repo, catalog: catalog, bus: bus}
}

func TestGetStructureMemoizesUntilMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first != second {
		t.Fatalf("expected the memoized structure to be reused")
	}
	if f.repo.detailCalls != 1 {
		t.Fatalf("expected 1 detail load, got %d", f.repo.detailCalls)
	}

	_, token, err := f.svc.CreateManualTask(ctx, studioID, jobID, transport.ManualTaskRequest{Name: "Backup footage", Category: "PRODUCTION"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	third, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.repo.detailCalls != 2 {
		t.Fatalf("expected a reload after the mutation, got %d loads", f.repo.detailCalls)
	}
	if third.Token != token || third.Token <= first.Token {
		t.Fatalf("expected token %d above %d, got %d", token, first.Token, third.Token)
	}
	if domain.CountLeaves(third.Rows) != 2 {
		t.Fatalf("expected 2 task rows, got %d", domain.CountLeaves(third.Rows))
	}
}

func TestGetStructureKeysOnOptionsAndDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.detail.OrderItems[0].Task = &domain.ScheduledTask{
		ID:                uuid.New(),
		Category:          domain.CategoryProduction,
		CatalogCategoryID: &categoryID,
	}

	if _, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	withPhantoms, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{Rows: domain.RowOptions{AddTaskPhantoms: true}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	other := domain.NewDate(2026, time.April, 1)
	dated, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{Today: &other})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if f.repo.detailCalls != 3 {
		t.Fatalf("expected 3 loads, got %d", f.repo.detailCalls)
	}
	if dated.Today != other {
		t.Fatalf("expected today %s, got %s", other, dated.Today)
	}
	hasPhantom := false
	for _, r := range withPhantoms.Rows {
		if domain.IsPhantom(r) {
			hasPhantom = true
		}
	}
	if !hasPhantom {
		t.Fatalf("expected phantom rows when requested")
	}
}

func TestGetStructureDegradesWithoutCatalog(t *testing.T) {
	f := newFixture(t)
	f.catalog.err = errors.New("catalog down")
	ctx := context.Background()

	structure, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if structure.CatalogLoaded {
		t.Fatalf("expected catalogLoaded=false")
	}
	if len(structure.Rows) == 0 {
		t.Fatalf("expected the sentinel section")
	}
	header, ok := structure.Rows[0].(domain.SectionRow)
	if !ok || !header.Section.IsUnclassified() {
		t.Fatalf("expected the sentinel section first, got %#v", structure.Rows[0])
	}
	if len(structure.Unclassified) != 1 {
		t.Fatalf("expected 1 unclassified task, got %d", len(structure.Unclassified))
	}

	if _, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.repo.detailCalls != 2 {
		t.Fatalf("expected degraded results not to be memoized, got %d loads", f.repo.detailCalls)
	}
}

func TestReclassifyValidatesAgainstCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Reclassify(ctx, studioID, jobID, ReclassifyInput{
		TaskID:            orderItemID,
		Stage:             domain.StageProduction,
		CatalogCategoryID: uuid.New(),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = f.svc.Reclassify(ctx, studioID, jobID, ReclassifyInput{
		TaskID:            orderItemID,
		Stage:             domain.StagePending,
		CatalogCategoryID: categoryID,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for pending stage, got %v", err)
	}

	f.catalog.err = errors.New("catalog down")
	_, err = f.svc.Reclassify(ctx, studioID, jobID, ReclassifyInput{
		TaskID:            orderItemID,
		Stage:             domain.StageProduction,
		CatalogCategoryID: categoryID,
	})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if len(f.repo.reclassified) != 0 {
		t.Fatalf("expected nothing written, got %d writes", len(f.repo.reclassified))
	}
}

func TestReclassifyMovesTaskOutOfSentinel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(before.Unclassified) != 1 {
		t.Fatalf("expected 1 unclassified task, got %d", len(before.Unclassified))
	}

	result, err := f.svc.Reclassify(ctx, studioID, jobID, ReclassifyInput{
		TaskID:            orderItemID,
		Stage:             domain.StagePostProduction,
		CatalogCategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Task.Category != domain.CategoryPostProduction {
		t.Fatalf("expected POST_PRODUCTION, got %s", result.Task.Category)
	}
	if result.Token <= before.Token {
		t.Fatalf("expected token above %d, got %d", before.Token, result.Token)
	}

	names := f.bus.names()
	if len(names) != 2 || names[0] != "scheduling.structure.changed" || names[1] != "scheduling.task.reclassified" {
		t.Fatalf("unexpected events %v", names)
	}
}

func waitForWaiters(t *testing.T, g *reclassifyGate, taskID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		l := g.locks[taskID]
		refs := 0
		if l != nil {
			refs = l.refs
		}
		g.mu.Unlock()
		if refs == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected %d requests queued for the task", want)
}

func TestReclassifyLastRequestWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherCategory := uuid.New()
	thirdCategory := uuid.New()
	f.catalog.sections[0].Categories = append(f.catalog.sections[0].Categories,
		domain.Category{ID: otherCategory, Name: "Sound"},
		domain.Category{ID: thirdCategory, Name: "Titles"},
	)

	started := make(chan struct{})
	unblock := make(chan struct{})
	var once sync.Once
	f.repo.reclassifyHook = func(ctx context.Context, params repository.ReclassifyParams) error {
		if params.CatalogCategoryID == categoryID {
			once.Do(func() { close(started) })
			<-unblock
		}
		return nil
	}

	run := func(cat uuid.UUID) <-chan error {
		done := make(chan error, 1)
		go func() {
			_, err := f.svc.Reclassify(ctx, studioID, jobID, ReclassifyInput{
				TaskID:            orderItemID,
				Stage:             domain.StageProduction,
				CatalogCategoryID: cat,
			})
			done <- err
		}()
		return done
	}

	first := run(categoryID)
	<-started
	second := run(otherCategory)
	waitForWaiters(t, f.svc.reclassify, orderItemID, 2)
	third := run(thirdCategory)
	waitForWaiters(t, f.svc.reclassify, orderItemID, 3)
	close(unblock)

	if err := <-first; err != nil {
		t.Fatalf("expected the in-flight request to complete, got %v", err)
	}
	if err := <-second; !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected the overtaken request to conflict, got %v", err)
	}
	if err := <-third; err != nil {
		t.Fatalf("expected the latest request to win, got %v", err)
	}

	if len(f.repo.reclassified) != 2 || f.repo.reclassified[1] != thirdCategory {
		t.Fatalf("expected writes [first, third], got %v", f.repo.reclassified)
	}
	if len(f.svc.reclassify.locks) != 0 || len(f.svc.reclassify.latest) != 0 {
		t.Fatalf("expected gate state to be released")
	}
}

func TestSyncFromOrderSupersedesRunningSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started := make(chan struct{})
	var calls atomic.Int32
	f.repo.syncHook = func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}
	f.repo.syncResults = []domain.SyncResult{{Created: 1}}

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.svc.SyncFromOrder(ctx, studioID, jobID, TriggerManual)
		firstErr <- err
	}()
	<-started

	outcome, err := f.svc.SyncFromOrder(ctx, studioID, jobID, TriggerManual)
	if err != nil {
		t.Fatalf("expected the newer sync to succeed, got %v", err)
	}
	if outcome.Result.Created != 1 {
		t.Fatalf("expected 1 created, got %d", outcome.Result.Created)
	}
	if err := <-firstErr; !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected the older sync to be superseded, got %v", err)
	}
}

func TestSyncFromOrderWithoutChangesKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.syncResults = []domain.SyncResult{{Created: 2}, {Skipped: 2}}

	first, err := f.svc.SyncFromOrder(ctx, studioID, jobID, TriggerManual)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := f.svc.SyncFromOrder(ctx, studioID, jobID, TriggerManual)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.Result.Skipped != 2 || second.Result.Created != 0 {
		t.Fatalf("expected only skips on the second run, got %+v", second.Result)
	}
	if second.Token != first.Token {
		t.Fatalf("expected token %d to be unchanged, got %d", first.Token, second.Token)
	}
}

type recordingEnqueuer struct {
	jobs []uuid.UUID
}

func (r *recordingEnqueuer) EnqueueScheduleSync(ctx context.Context, studioID, jobID uuid.UUID) error {
	r.jobs = append(r.jobs, jobID)
	return nil
}

func TestEnqueueSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.EnqueueSync(ctx, studioID, jobID); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable without an enqueuer, got %v", err)
	}

	enqueuer := &recordingEnqueuer{}
	f.svc.SetSyncEnqueuer(enqueuer)
	n, err := f.svc.SweepUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 1 || len(enqueuer.jobs) != 1 || enqueuer.jobs[0] != jobID {
		t.Fatalf("expected job %s to be enqueued once, got %v", jobID, enqueuer.jobs)
	}
}

func TestCatalogChangedInvalidatesStudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := f.svc.Handle(ctx, events.CatalogChanged{StudioID: studioID, Reason: "section.created"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first == second || second.Token <= first.Token {
		t.Fatalf("expected a rebuilt structure with a newer token")
	}
}

func TestCreateManualTaskValidatesCustomCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	custom, err := f.svc.CreateCustomCategory(ctx, studioID, transport.CreateCustomCategoryRequest{
		SectionID: sectionID,
		Stage:     string(domain.StageProduction),
		Name:      " Drone ",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if custom.Name != "Drone" {
		t.Fatalf("expected sanitized name, got %q", custom.Name)
	}

	_, _, err = f.svc.CreateManualTask(ctx, studioID, jobID, transport.ManualTaskRequest{
		Name:             "Aerial shots",
		Category:         "DELIVERY",
		CustomCategoryID: &custom.ID,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for a stage mismatch, got %v", err)
	}

	task, _, err := f.svc.CreateManualTask(ctx, studioID, jobID, transport.ManualTaskRequest{
		Name:             "Aerial shots",
		Category:         "PRODUCTION",
		CustomCategoryID: &custom.ID,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if task.SectionID == nil || *task.SectionID != sectionID {
		t.Fatalf("expected the section of the custom category, got %v", task.SectionID)
	}
	if task.DurationDays != domain.DefaultDurationDays {
		t.Fatalf("expected default duration, got %d", task.DurationDays)
	}

	structure, err := f.svc.GetStructure(ctx, studioID, jobID, StructureOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	found := false
	for _, r := range structure.Rows {
		if row, ok := r.(domain.ManualTaskRow); ok && row.Task.Slot.Kind == domain.SlotCustom {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the manual task under its custom category")
	}
}

func TestGetStructureSharedLoadOutlivesCancelledCaller(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.catalog.hook = func(ctx context.Context) error {
		once.Do(func() { close(entered) })
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := f.svc.GetStructure(ctxA, studioID, jobID, StructureOptions{})
		errA <- err
	}()
	<-entered
	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the cancelled caller to get context.Canceled, got %v", err)
	}

	ctxB, cancelB := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelB()
	type result struct {
		structure *Structure
		err       error
	}
	resB := make(chan result, 1)
	go func() {
		structure, err := f.svc.GetStructure(ctxB, studioID, jobID, StructureOptions{})
		resB <- result{structure, err}
	}()
	close(release)

	res := <-resB
	if res.err != nil {
		t.Fatalf("expected the live caller to succeed, got %v", res.err)
	}
	if !res.structure.CatalogLoaded {
		t.Fatalf("expected the catalog to be loaded")
	}
	if calls := f.catalog.calls.Load(); calls != 1 {
		t.Fatalf("expected one shared catalog load, got %d", calls)
	}
}

func TestGetFleetStatsReportsTheDateItMeasured(t *testing.T) {
	f := newFixture(t)
	var reads atomic.Int32
	f.svc.SetClock(func() time.Time {
		if reads.Add(1) == 1 {
			return time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
		}
		return time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC)
	})

	fleet, err := f.svc.GetFleetStats(context.Background(), studioID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if want := domain.NewDate(2026, 3, 10); fleet.Today != want {
		t.Fatalf("expected fleet date %s, got %s", want, fleet.Today)
	}
	if len(fleet.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(fleet.Jobs))
	}
}

func TestStructureCacheEvictsAndExpires(t *testing.T) {
	cache := newStructureCache(2, 50*time.Millisecond)

	keyA := structureKey{jobID: uuid.New()}
	keyB := structureKey{jobID: uuid.New()}
	keyC := structureKey{jobID: uuid.New()}
	cache.put(keyA, &Structure{})
	cache.put(keyB, &Structure{})
	if _, ok := cache.get(keyA); !ok {
		t.Fatalf("expected key A to be cached")
	}
	cache.put(keyC, &Structure{})

	if _, ok := cache.get(keyB); ok {
		t.Fatalf("expected the least recently used key to be evicted")
	}
	if cache.len() != 2 {
		t.Fatalf("expected 2 entries, got %d", cache.len())
	}

	time.Sleep(100 * time.Millisecond)
	if _, ok := cache.get(keyA); ok {
		t.Fatalf("expected key A to expire")
	}
}

func TestStructureCacheDisabledWithoutTTL(t *testing.T) {
	cache := newStructureCache(2, 0)
	key := structureKey{jobID: uuid.New()}
	cache.put(key, &Structure{})
	if _, ok := cache.get(key); ok {
		t.Fatalf("expected a cache without TTL to store nothing")
	}
	if cache.len() != 0 {
		t.Fatalf("expected 0 entries, got %d", cache.len())
	}
}
