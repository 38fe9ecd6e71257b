// Package incentives provides the incentive announcement module.
package incentives

import (
	"educater_backend/internal/events"
	apphttp "educater_backend/internal/http"
	"educater_backend/internal/incentives/handler"
	"educater_backend/internal/incentives/repository"
	"educater_backend/internal/incentives/service"
	"educater_backend/internal/storage"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the incentives domain module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new incentives module with all dependencies wired.
// enqueuer may be nil when no job queue is configured.
func NewModule(pool *pgxpool.Pool, store storage.Service, bucket string, bus events.Bus, enqueuer service.BroadcastEnqueuer, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, bucket, bus, enqueuer, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "incentives"
}

// RegisterRoutes registers the module's routes under /api/v1/incentives.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/incentives"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/incentives"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
