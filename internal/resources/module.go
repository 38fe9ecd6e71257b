// Package resources provides the sales toolkit and training library module.
package resources

import (
	apphttp "educater_backend/internal/http"
	"educater_backend/internal/resources/handler"
	"educater_backend/internal/resources/repository"
	"educater_backend/internal/resources/service"
	"educater_backend/internal/storage"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the resources domain module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new resources module with all dependencies wired.
// bucket is the resources bucket.
func NewModule(pool *pgxpool.Pool, store storage.Service, bucket string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, bucket, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "resources"
}

// RegisterRoutes registers the module's routes under /api/v1/resources and
// /api/v1/admin/resources.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/resources"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/resources"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
