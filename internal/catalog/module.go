// Package catalog provides the catalog bounded context module.
package catalog

import (
	"studio_backend/internal/catalog/handler"
	"studio_backend/internal/catalog/repository"
	"studio_backend/internal/catalog/service"
	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Protected read-only endpoints
	ctx.Protected.GET("/catalog/sections", m.handler.ListSections)

	// Admin endpoints
	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.POST("/sections", m.handler.CreateSection)
	adminGroup.PATCH("/sections/:id", m.handler.UpdateSection)
	adminGroup.POST("/sections/:id/categories", m.handler.CreateCategory)
	adminGroup.PATCH("/categories/:id", m.handler.UpdateCategory)
	adminGroup.POST("/categories/:id/items", m.handler.CreateItem)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
