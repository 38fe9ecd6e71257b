// Package pwa serves install helpers for the progressive web app, replacing
// the in-browser install prompt with a scannable QR code.
package pwa

import (
	"net/http"

	apphttp "educater_backend/internal/http"
	"educater_backend/platform/config"
	"educater_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

// Module serves the app install QR code.
type Module struct {
	cfg config.AppConfig
}

// NewModule creates a new pwa module.
func NewModule(cfg config.AppConfig) *Module {
	return &Module{cfg: cfg}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "pwa"
}

// RegisterRoutes registers the install routes. They are public so a rep can
// scan the code on a device they have not signed in on yet.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.V1.Group("/app")
	rg.GET("/install-qr", m.InstallQR)
}

// InstallQR handles GET /api/v1/app/install-qr and responds with a PNG QR
// code pointing at the app.
func (m *Module) InstallQR(c *gin.Context) {
	png, err := qrcode.Encode(m.cfg.GetAppBaseURL(), qrcode.Medium, 256)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to render QR code", nil)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
