package handler

import (
	"net/http"

	"educater_backend/internal/templates/repository"
	"educater_backend/internal/templates/service"
	"educater_backend/internal/templates/transport"
	"educater_backend/platform/httpkit"
	"educater_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for outreach templates.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new templates handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the template routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("", h.Create)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/send", h.Send)
}

// List handles GET /api/v1/templates
func (h *Handler) List(c *gin.Context) {
	templates, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromTemplateList(templates))
}

// GetByID handles GET /api/v1/templates/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	t, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromTemplate(t))
}

// Create handles POST /api/v1/templates
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	t, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		Track:     req.Track,
		Title:     req.Title,
		Subject:   req.Subject,
		Content:   req.Content,
		CreatedBy: identity.DisplayName(),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromTemplate(t))
}

// Update handles PATCH /api/v1/templates/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	t, err := h.svc.Update(c.Request.Context(), id, req.ToParams())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromTemplate(t))
}

// Delete handles DELETE /api/v1/templates/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// Send handles POST /api/v1/templates/:id/send
func (h *Handler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.SendTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	sendErr := h.svc.Send(c.Request.Context(), id, req.ToEmail, service.Placeholders{
		SchoolName:    req.SchoolName,
		PrincipalName: req.PrincipalName,
		RepName:       identity.DisplayName(),
	})
	if httpkit.HandleError(c, sendErr) {
		return
	}
	httpkit.OK(c, gin.H{"status": "sent"})
}
