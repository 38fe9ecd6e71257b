// Package reps provides the sales rep profile domain module.
package reps

import (
	apphttp "educater_backend/internal/http"
	"educater_backend/internal/reps/handler"
	"educater_backend/internal/reps/repository"
	"educater_backend/internal/reps/service"
	"educater_backend/internal/storage"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the reps domain module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates a new reps module with all dependencies wired. bucket is
// the rep-documents bucket.
func NewModule(pool *pgxpool.Pool, store storage.Service, bucket string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, bucket, log)
	h := handler.New(svc, val)

	return &Module{handler: h, svc: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "reps"
}

// Service exposes the reps service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes registers the module's routes under /api/v1/reps and
// /api/v1/admin/reps.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/reps"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/reps"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
