package notification

import (
	"context"
	"testing"

	"studio_backend/internal/events"
	"studio_backend/internal/notification/sse"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
)

func TestHandleForwardsToStudioStream(t *testing.T) {
	m := New(logger.New("development"))
	studioID, otherStudio, jobID := uuid.New(), uuid.New(), uuid.New()

	got, _ := m.SSE().Subscribe(studioID, uuid.Nil)
	other, _ := m.SSE().Subscribe(otherStudio, uuid.Nil)

	err := m.Handle(context.Background(), events.ScheduleStructureChanged{
		BaseEvent: events.NewBaseEvent(),
		StudioID:  studioID,
		JobID:     jobID,
		Token:     7,
		Reason:    "task.reclassified",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	select {
	case ev := <-got:
		if ev.Type != sse.EventStructureChanged || ev.JobID != jobID || ev.Token != 7 {
			t.Fatalf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("expected an event for the studio")
	}
	select {
	case ev := <-other:
		t.Fatalf("expected no event for another studio, got %+v", ev)
	default:
	}
}

func TestHandleMapsSyncCompleted(t *testing.T) {
	m := New(logger.New("development"))
	studioID := uuid.New()
	got, _ := m.SSE().Subscribe(studioID, uuid.Nil)

	_ = m.Handle(context.Background(), events.ScheduleSynced{
		BaseEvent: events.NewBaseEvent(),
		StudioID:  studioID,
		JobID:     uuid.New(),
		Trigger:   "worker",
		Created:   2,
	})

	ev := <-got
	if ev.Type != sse.EventSyncCompleted {
		t.Fatalf("expected %s, got %s", sse.EventSyncCompleted, ev.Type)
	}
	data, ok := ev.Data.(map[string]interface{})
	if !ok || data["created"] != 2 || data["trigger"] != "worker" {
		t.Fatalf("unexpected data %+v", ev.Data)
	}
}

func TestRegisterHandlersReceivesBusEvents(t *testing.T) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	m := New(log)
	m.RegisterHandlers(bus)

	studioID := uuid.New()
	got, _ := m.SSE().Subscribe(studioID, uuid.Nil)

	bus.Publish(context.Background(), events.CustomCategoryChanged{
		BaseEvent:        events.NewBaseEvent(),
		StudioID:         studioID,
		CustomCategoryID: uuid.New(),
	})
	bus.Wait()

	select {
	case ev := <-got:
		if ev.Type != sse.EventCustomCategoryChanged {
			t.Fatalf("expected %s, got %s", sse.EventCustomCategoryChanged, ev.Type)
		}
	default:
		t.Fatal("expected the bus event to reach the stream")
	}
}
