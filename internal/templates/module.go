// Package templates provides the outreach email template module.
package templates

import (
	"educater_backend/internal/email"
	apphttp "educater_backend/internal/http"
	"educater_backend/internal/templates/handler"
	"educater_backend/internal/templates/repository"
	"educater_backend/internal/templates/service"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the templates domain module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new templates module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, mail email.Sender, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, mail, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "templates"
}

// RegisterRoutes registers the module's routes under /api/v1/templates.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/templates"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
