// Package messaging provides the team messaging module: group chats and
// direct conversations between reps.
package messaging

import (
	"educater_backend/internal/events"
	apphttp "educater_backend/internal/http"
	"educater_backend/internal/messaging/handler"
	"educater_backend/internal/messaging/repository"
	"educater_backend/internal/messaging/service"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the messaging domain module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new messaging module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, reps service.RepDirectory, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, reps, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "messaging"
}

// RegisterRoutes registers the module's routes under /api/v1/messaging.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/messaging"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/messaging"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
