package sse

import (
	"testing"

	"studio_backend/platform/logger"

	"github.com/google/uuid"
)

func TestPublishDropsWhenBufferFull(t *testing.T) {
	s := New(logger.New("development"))
	studioID := uuid.New()
	stream, unsubscribe := s.Subscribe(studioID, uuid.New())
	defer unsubscribe()

	for i := 0; i < clientBufferSize+5; i++ {
		s.PublishToStudio(studioID, Event{Type: EventStructureChanged, Token: uint64(i + 1)})
	}
	if len(stream) != clientBufferSize {
		t.Fatalf("expected %d buffered events, got %d", clientBufferSize, len(stream))
	}
	if first := <-stream; first.Token != 1 {
		t.Fatalf("expected the oldest event first, got token %d", first.Token)
	}
}

func TestUnsubscribeRemovesClient(t *testing.T) {
	s := New(logger.New("development"))
	studioID := uuid.New()
	stream, unsubscribe := s.Subscribe(studioID, uuid.New())
	if s.ClientCount(studioID) != 1 {
		t.Fatalf("expected 1 client, got %d", s.ClientCount(studioID))
	}

	unsubscribe()
	if s.ClientCount(studioID) != 0 {
		t.Fatalf("expected 0 clients, got %d", s.ClientCount(studioID))
	}
	if _, ok := <-stream; ok {
		t.Fatal("expected the stream to be closed")
	}
}

func TestCloseEndsStreams(t *testing.T) {
	s := New(logger.New("development"))
	studioID := uuid.New()
	stream, unsubscribe := s.Subscribe(studioID, uuid.New())

	s.Close()
	unsubscribe()
	if _, ok := <-stream; ok {
		t.Fatal("expected the stream to be closed")
	}

	late, _ := s.Subscribe(studioID, uuid.New())
	if _, ok := <-late; ok {
		t.Fatal("expected a closed stream after Close")
	}
}
