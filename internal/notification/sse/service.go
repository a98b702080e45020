// Package sse provides Server-Sent Events support for live schedule updates.
package sse

import (
	"encoding/json"
	"sync"

	"studio_backend/platform/apperr"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventStructureChanged      EventType = "structure_changed"
	EventSyncCompleted         EventType = "sync_completed"
	EventTaskReclassified      EventType = "task_reclassified"
	EventCustomCategoryChanged EventType = "custom_category_changed"
	EventCatalogChanged        EventType = "catalog_changed"
)

const clientBufferSize = 32

// Event represents an SSE event payload
type Event struct {
	Type    EventType   `json:"type"`
	JobID   uuid.UUID   `json:"jobId,omitempty"`
	Token   uint64      `json:"token,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type client struct {
	userID   uuid.UUID
	studioID uuid.UUID
	events   chan Event
}

// Service manages SSE connections per studio.
type Service struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*client // studioID -> clients
	closed  bool
	log     *logger.Logger
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[uuid.UUID][]*client),
		log:     log,
	}
}

// Subscribe registers a listener for the events of a studio. The channel is
// closed by the returned cancel func or by Close.
func (s *Service) Subscribe(studioID, userID uuid.UUID) (<-chan Event, func()) {
	c := &client{
		userID:   userID,
		studioID: studioID,
		events:   make(chan Event, clientBufferSize),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(c.events)
		return c.events, func() {}
	}
	s.clients[studioID] = append(s.clients[studioID], c)
	return c.events, func() { s.removeClient(c) }
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.studioID]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.studioID] = append(clients[:i], clients[i+1:]...)
			close(c.events)
			break
		}
	}
	if len(s.clients[c.studioID]) == 0 {
		delete(s.clients, c.studioID)
	}
}

// ClientCount returns the number of open connections of a studio.
func (s *Service) ClientCount(studioID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[studioID])
}

// PublishToStudio sends an event to every connection of a studio. A client
// whose buffer is full misses the event.
func (s *Service) PublishToStudio(studioID uuid.UUID, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := s.clients[studioID]
	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse buffer full, event dropped", "studioId", studioID, "userId", c.userID, "type", event.Type)
		}
	}
	s.log.Debug("sse event published", "studioId", studioID, "type", event.Type, "clients", len(clients))
}

// Handler returns a Gin handler for SSE connections
func (s *Service) Handler(getUserID func(*gin.Context) (uuid.UUID, bool), getStudioID func(*gin.Context) (uuid.UUID, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			httpkit.HandleError(c, apperr.Unauthorized("unauthorized"))
			return
		}
		studioID, ok := getStudioID(c)
		if !ok {
			httpkit.HandleError(c, apperr.Forbidden("studio context required"))
			return
		}

		stream, unsubscribe := s.Subscribe(studioID, userID)
		defer unsubscribe()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		c.SSEvent("connected", gin.H{"userId": userID, "studioId": studioID})
		c.Writer.Flush()

		s.log.Info("sse client connected", "userId", userID, "studioId", studioID)

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Info("sse client disconnected", "userId", userID, "studioId", studioID)
				return
			case event, ok := <-stream:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					s.log.Error("sse event encode failed", "type", event.Type, "error", err)
					continue
				}
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects every client.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clients := range s.clients {
		for _, c := range clients {
			close(c.events)
		}
	}
	s.clients = make(map[uuid.UUID][]*client)
	s.closed = true
}
