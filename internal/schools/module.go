// Package schools provides the school lead pipeline domain module.
package schools

import (
	"educater_backend/internal/events"
	apphttp "educater_backend/internal/http"
	"educater_backend/internal/schools/handler"
	"educater_backend/internal/schools/repository"
	"educater_backend/internal/schools/service"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the schools domain module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates a new schools module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, svc: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "schools"
}

// Service exposes the schools service for cross-module wiring (the auth
// module runs the assignment sweep on admin login).
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes registers the module's routes under /api/v1/schools and
// /api/v1/admin/schools.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/schools"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/schools"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
