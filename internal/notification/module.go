// Package notification pushes scheduling changes to connected studio clients
// over Server-Sent Events. It subscribes to domain events so the scheduling
// module never needs to know about open connections.
package notification

import (
	"context"

	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/internal/notification/sse"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Module forwards scheduling events to the SSE stream of the owning studio.
type Module struct {
	sse *sse.Service
	log *logger.Logger
}

// New creates the notification module.
func New(log *logger.Logger) *Module {
	return &Module{sse: sse.New(log), log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// SSE exposes the stream service.
func (m *Module) SSE() *sse.Service { return m.sse }

// RegisterRoutes mounts the event stream.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/scheduling/events", m.sse.Handler(streamUserID, streamStudioID))
}

func streamUserID(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.GetIdentity(c)
	if !id.IsAuthenticated() {
		return uuid.Nil, false
	}
	return id.UserID(), true
}

func streamStudioID(c *gin.Context) (uuid.UUID, bool) {
	tenantID := httpkit.GetIdentity(c).TenantID()
	if tenantID == nil {
		return uuid.Nil, false
	}
	return *tenantID, true
}

// RegisterHandlers subscribes to the events that change what a schedule view
// shows.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ScheduleStructureChanged{}.EventName(), m)
	bus.Subscribe(events.ScheduleSynced{}.EventName(), m)
	bus.Subscribe(events.TaskReclassified{}.EventName(), m)
	bus.Subscribe(events.CustomCategoryChanged{}.EventName(), m)
	bus.Subscribe(events.CatalogChanged{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the studio stream.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ScheduleStructureChanged:
		m.sse.PublishToStudio(e.StudioID, sse.Event{
			Type:    sse.EventStructureChanged,
			JobID:   e.JobID,
			Token:   e.Token,
			Message: e.Reason,
		})
	case events.ScheduleSynced:
		m.sse.PublishToStudio(e.StudioID, sse.Event{
			Type:  sse.EventSyncCompleted,
			JobID: e.JobID,
			Data: map[string]interface{}{
				"trigger": e.Trigger,
				"created": e.Created,
				"updated": e.Updated,
				"skipped": e.Skipped,
			},
		})
	case events.TaskReclassified:
		m.sse.PublishToStudio(e.StudioID, sse.Event{
			Type:  sse.EventTaskReclassified,
			JobID: e.JobID,
			Data: map[string]interface{}{
				"taskId":            e.TaskID,
				"stage":             e.Stage,
				"catalogCategoryId": e.CatalogCategoryID,
			},
		})
	case events.CustomCategoryChanged:
		m.sse.PublishToStudio(e.StudioID, sse.Event{
			Type: sse.EventCustomCategoryChanged,
			Data: map[string]interface{}{"customCategoryId": e.CustomCategoryID},
		})
	case events.CatalogChanged:
		m.sse.PublishToStudio(e.StudioID, sse.Event{
			Type:    sse.EventCatalogChanged,
			Message: e.Reason,
		})
	default:
		m.log.WithContext(ctx).Debug("notification module ignored event", "event", event.EventName())
	}
	return nil
}

var _ apphttp.Module = (*Module)(nil)
