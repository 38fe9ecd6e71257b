// Package sse provides Server-Sent Events support for real-time
// notifications.
package sse

import (
	"encoding/json"
	"sync"

	"educater_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events.
type EventType string

const (
	EventSchoolCreated    EventType = "school_created"
	EventStageChanged     EventType = "stage_changed"
	EventMessagePosted    EventType = "message_posted"
	EventIncentiveCreated EventType = "incentive_created"
)

// Event represents an SSE event payload.
type Event struct {
	Type     EventType   `json:"type"`
	SchoolID uuid.UUID   `json:"schoolId,omitempty"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// client represents a connected SSE client. The events channel is never
// closed; a publisher may still hold a reference to a client that was just
// removed, and sending on an open orphaned channel is harmless while sending
// on a closed one would panic the process. Removal is signalled through done
// instead.
type client struct {
	repID   string
	events  chan Event
	done    chan struct{}
	removed bool // guarded by Service.mu
}

// Service manages SSE connections and event fan-out. A rep can hold several
// connections at once (multiple tabs, phone and laptop).
type Service struct {
	mu      sync.RWMutex
	clients map[string][]*client // repID -> clients
	log     *logger.Logger
}

// New creates a new SSE service.
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[string][]*client),
		log:     log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.repID] = append(s.clients[c.repID], c)
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.repID]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.repID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(s.clients[c.repID]) == 0 {
		delete(s.clients, c.repID)
	}

	if !c.removed {
		c.removed = true
		close(c.done)
	}
}

// Publish sends an event to every connection a rep holds. A full buffer
// drops the event for that connection rather than blocking the publisher.
func (s *Service) Publish(repID string, event Event) {
	s.mu.RLock()
	clients := s.clients[repID]
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.events <- event:
		case <-c.done:
		default:
			s.log.Warn("sse event buffer full", "repId", repID, "eventType", event.Type)
		}
	}
}

// PublishToMany sends an event to each listed rep.
func (s *Service) PublishToMany(repIDs []string, event Event) {
	for _, repID := range repIDs {
		s.Publish(repID, event)
	}
}

// Broadcast sends an event to every connected rep.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	repIDs := make([]string, 0, len(s.clients))
	for repID := range s.clients {
		repIDs = append(repIDs, repID)
	}
	s.mu.RUnlock()

	for _, repID := range repIDs {
		s.Publish(repID, event)
	}
}

// Handler returns a Gin handler for SSE connections.
func (s *Service) Handler(getRepID func(*gin.Context) (string, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		repID, ok := getRepID(c)
		if !ok {
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			repID:  repID,
			events: make(chan Event, 32),
			done:   make(chan struct{}),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"repId": repID})
		c.Writer.Flush()

		s.log.Info("sse client connected", "repId", repID)

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Info("sse client disconnected", "repId", repID)
				return
			case <-cl.done:
				return
			case event := <-cl.events:
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down the SSE service, dropping every connection.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clients := range s.clients {
		for _, c := range clients {
			if !c.removed {
				c.removed = true
				close(c.done)
			}
		}
	}
	s.clients = make(map[string][]*client)
}
