// Package scheduling provides the scheduling structure bounded context module.
package scheduling

import (
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/handler"
	"studio_backend/internal/scheduling/repository"
	"studio_backend/internal/scheduling/service"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"
	platformvalidator "studio_backend/platform/validator"
)

// Module is the scheduling bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
	log     *logger.Logger
}

// NewModule creates and initializes the scheduling module.
func NewModule(
	pool *pgxpool.Pool,
	catalog service.CatalogReader,
	eventBus events.Bus,
	val *platformvalidator.Validator,
	cfg config.SchedulingConfig,
	log *logger.Logger,
) (*Module, error) {
	if err := RegisterValidations(val); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, catalog, eventBus, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
		log:     log,
	}, nil
}

// RegisterValidations adds the scheduling-specific validation tags.
func RegisterValidations(val *platformvalidator.Validator) error {
	return val.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return domain.Stage(fl.Field().String()).IsProduction()
	})
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scheduling"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts scheduling routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	scheduling := ctx.Protected.Group("/scheduling")

	jobs := scheduling.Group("/jobs/:jobId")
	jobs.GET("/structure", m.handler.GetStructure)
	jobs.GET("/blocks", m.handler.GetBlocks)
	jobs.GET("/stats", m.handler.GetStats)
	jobs.GET("/unclassified", m.handler.GetUnclassified)
	jobs.POST("/sync", m.handler.SyncFromOrder)
	jobs.GET("/sync-runs", m.handler.ListSyncRuns)
	jobs.PATCH("/tasks/:taskId/classification", m.handler.Reclassify)
	jobs.POST("/manual-tasks", m.handler.CreateManualTask)
	jobs.PUT("/manual-tasks/:id", m.handler.UpdateManualTask)
	jobs.DELETE("/manual-tasks/:id", m.handler.DeleteManualTask)
	jobs.POST("/stage-keys", m.handler.AddStageKey)

	scheduling.GET("/custom-categories", m.handler.ListCustomCategories)
	scheduling.POST("/custom-categories", m.handler.CreateCustomCategory)
	scheduling.PUT("/custom-categories/:id", m.handler.RenameCustomCategory)

	scheduling.GET("/fleet", m.handler.GetFleetStats)
}

// RegisterHandlers subscribes the module to events of other contexts.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.CatalogChanged{}.EventName(), m.service)
	m.log.Info("scheduling module registered event handlers")
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
