package handler

import (
	"net/http"

	"educater_backend/internal/schools/domain"
	"educater_backend/internal/schools/service"
	"educater_backend/internal/schools/transport"
	"educater_backend/platform/httpkit"
	"educater_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for school leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new schools handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the school routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/check-name", h.CheckName)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/stage", h.AdvanceStage)
	rg.PATCH("/:id/contact", h.UpdateContact)
}

// RegisterAdminRoutes registers the admin-only school routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/:id", h.Delete)
	rg.POST("/reconcile", h.Reconcile)
	rg.POST("/seed", h.Seed)
}

// List handles GET /api/v1/schools
func (h *Handler) List(c *gin.Context) {
	schools, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromDomainList(schools))
}

// GetByID handles GET /api/v1/schools/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	school, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromDomain(school))
}

// Create handles POST /api/v1/schools
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateSchoolRequest
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

	school, err := h.svc.Create(c.Request.Context(), req.ToParams(), identity.DisplayName())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromDomain(school))
}

// CheckName handles GET /api/v1/schools/check-name. It runs the same fuzzy
// duplicate check the create endpoint enforces, so the UI can warn before
// submitting.
func (h *Handler) CheckName(c *gin.Context) {
	var req transport.CheckNameRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	exists, err := h.svc.Exists(c.Request.Context(), req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CheckNameResponse{Exists: exists})
}

// Stats handles GET /api/v1/schools/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromStats(stats))
}

// AdvanceStage handles PATCH /api/v1/schools/:id/stage
func (h *Handler) AdvanceStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AdvanceStageRequest
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
	rep := domain.RepRef{ID: identity.RepID(), Name: identity.DisplayName()}

	school, err := h.svc.AdvanceStage(c.Request.Context(), id, domain.Stage(req.Stage), rep)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromDomain(school))
}

// UpdateContact handles PATCH /api/v1/schools/:id/contact
func (h *Handler) UpdateContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateContactRequest
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

	school, err := h.svc.UpdateContactInfo(c.Request.Context(), id, req.ToUpdate(), identity.DisplayName())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromDomain(school))
}

// Delete handles DELETE /api/v1/admin/schools/:id
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

// Reconcile handles POST /api/v1/admin/schools/reconcile
func (h *Handler) Reconcile(c *gin.Context) {
	corrected, err := h.svc.Reconcile(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ReconcileResponse{Corrected: corrected})
}

// Seed handles POST /api/v1/admin/schools/seed
func (h *Handler) Seed(c *gin.Context) {
	var req transport.SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	seeded, err := h.svc.Seed(c.Request.Context(), req.Force)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SeedResponse{Seeded: seeded})
}
