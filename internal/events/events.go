// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"educater_backend/platform/events"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Schools Domain Events
// =============================================================================

// SchoolCreated is published when a new lead passes the duplicate gate.
type SchoolCreated struct {
	BaseEvent
	SchoolID  uuid.UUID `json:"schoolId"`
	Name      string    `json:"name"`
	Track     string    `json:"track"`
	CreatedBy string    `json:"createdBy"`
}

func (e SchoolCreated) EventName() string { return "schools.created" }

// SchoolStageChanged is published after a stage advance lands.
type SchoolStageChanged struct {
	BaseEvent
	SchoolID     uuid.UUID `json:"schoolId"`
	Name         string    `json:"name"`
	OldStage     string    `json:"oldStage"`
	NewStage     string    `json:"newStage"`
	ActingRepID  string    `json:"actingRepId"`
	SalesRepID   *string   `json:"salesRepId,omitempty"`
	SalesRepName *string   `json:"salesRepName,omitempty"`
}

func (e SchoolStageChanged) EventName() string { return "schools.stage.changed" }

// =============================================================================
// Messaging Domain Events
// =============================================================================

// MessagePosted is published when a group or direct message is stored.
type MessagePosted struct {
	BaseEvent
	MessageID    uuid.UUID `json:"messageId"`
	ChannelID    uuid.UUID `json:"channelId"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	Body         string    `json:"body"`
	RecipientIDs []string  `json:"recipientIds"`
}

func (e MessagePosted) EventName() string { return "messaging.message.posted" }

// =============================================================================
// Incentives Domain Events
// =============================================================================

// IncentiveCreated is published when an admin announces a new incentive.
type IncentiveCreated struct {
	BaseEvent
	IncentiveID uuid.UUID `json:"incentiveId"`
	Title       string    `json:"title"`
	CreatedBy   string    `json:"createdBy"`
}

func (e IncentiveCreated) EventName() string { return "incentives.created" }
