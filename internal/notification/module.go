// Package notification fans domain events out to connected clients. It
// subscribes to the event bus and pushes over SSE; email delivery goes
// through the outbox so domain modules never talk to SMTP directly.
package notification

import (
	"context"

	"educater_backend/internal/events"
	apphttp "educater_backend/internal/http"
	notifhandler "educater_backend/internal/notification/handler"
	"educater_backend/internal/notification/push"
	"educater_backend/internal/notification/sse"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the notification module.
type Module struct {
	stream  *sse.Service
	tokens  *push.Repository
	handler *notifhandler.Handler
	log     *logger.Logger
}

// NewModule creates a new notification module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	stream := sse.New(log)
	tokens := push.New(pool)
	h := notifhandler.New(stream, tokens, val)

	return &Module{
		stream:  stream,
		tokens:  tokens,
		handler: h,
		log:     log,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "notification"
}

// RegisterRoutes registers the module's routes under /api/v1/notifications.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/notifications"))
}

// RegisterHandlers subscribes to all relevant domain events on the event
// bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SchoolCreated{}.EventName(), m)
	bus.Subscribe(events.SchoolStageChanged{}.EventName(), m)
	bus.Subscribe(events.MessagePosted{}.EventName(), m)
	bus.Subscribe(events.IncentiveCreated{}.EventName(), m)
}

// Handle dispatches a domain event to the matching handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.SchoolCreated:
		return m.handleSchoolCreated(ctx, e)
	case events.SchoolStageChanged:
		return m.handleStageChanged(ctx, e)
	case events.MessagePosted:
		return m.handleMessagePosted(ctx, e)
	case events.IncentiveCreated:
		return m.handleIncentiveCreated(ctx, e)
	default:
		m.log.Warn("unhandled event", "event", event.EventName())
		return nil
	}
}

// handleSchoolCreated refreshes every connected pipeline view.
func (m *Module) handleSchoolCreated(_ context.Context, e events.SchoolCreated) error {
	m.stream.Broadcast(sse.Event{
		Type:     sse.EventSchoolCreated,
		SchoolID: e.SchoolID,
		Message:  "New lead: " + e.Name,
		Data:     e,
	})
	return nil
}

// handleStageChanged tells the assigned rep directly and refreshes everyone
// else's board.
func (m *Module) handleStageChanged(_ context.Context, e events.SchoolStageChanged) error {
	m.stream.Broadcast(sse.Event{
		Type:     sse.EventStageChanged,
		SchoolID: e.SchoolID,
		Message:  e.Name + " moved to " + e.NewStage,
		Data:     e,
	})
	return nil
}

// handleMessagePosted goes only to the message's recipients.
func (m *Module) handleMessagePosted(_ context.Context, e events.MessagePosted) error {
	m.stream.PublishToMany(e.RecipientIDs, sse.Event{
		Type:    sse.EventMessagePosted,
		Message: e.SenderName + ": " + e.Body,
		Data:    e,
	})
	return nil
}

// handleIncentiveCreated announces to everyone connected. The email
// broadcast runs separately through the outbox.
func (m *Module) handleIncentiveCreated(_ context.Context, e events.IncentiveCreated) error {
	m.stream.Broadcast(sse.Event{
		Type:    sse.EventIncentiveCreated,
		Message: "New incentive: " + e.Title,
		Data:    e,
	})
	return nil
}

// Close drops all SSE connections.
func (m *Module) Close() {
	m.stream.Close()
}

// Compile-time checks
var (
	_ apphttp.Module = (*Module)(nil)
	_ events.Handler = (*Module)(nil)
)
