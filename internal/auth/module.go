// Package auth provides the authentication domain module.
package auth

import (
	"educater_backend/internal/auth/handler"
	"educater_backend/internal/auth/repository"
	"educater_backend/internal/auth/service"
	"educater_backend/internal/email"
	apphttp "educater_backend/internal/http"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the auth domain module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates a new auth module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, cfg service.Config, mail email.Sender, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, mail, log)
	h := handler.New(svc, val)

	return &Module{handler: h, svc: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "auth"
}

// Service exposes the auth service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes registers the auth routes under /api/v1/auth with the
// stricter auth rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
