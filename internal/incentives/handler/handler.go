package handler

import (
	"net/http"

	"educater_backend/internal/incentives/service"
	"educater_backend/internal/incentives/transport"
	"educater_backend/platform/httpkit"
	"educater_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for incentive announcements.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new incentives handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the rep-facing incentive routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/image", h.Image)
}

// RegisterAdminRoutes registers admin-only incentive routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.POST("/image-upload", h.ImageUpload)
	rg.DELETE("/:id", h.Delete)
}

// List handles GET /api/v1/incentives
func (h *Handler) List(c *gin.Context) {
	incentives, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromIncentiveList(incentives))
}

// GetByID handles GET /api/v1/incentives/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	inc, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromIncentive(inc))
}

// Image handles GET /api/v1/incentives/:id/image
func (h *Handler) Image(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	presigned, err := h.svc.ImageDownloadURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}

// Create handles POST /api/v1/admin/incentives
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateIncentiveRequest
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

	inc, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		ImageKey:    req.ImageKey,
		CreatedBy:   identity.RepID(),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromIncentive(inc))
}

// ImageUpload handles POST /api/v1/admin/incentives/image-upload
func (h *Handler) ImageUpload(c *gin.Context) {
	var req transport.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	presigned, err := h.svc.RequestImageUpload(c.Request.Context(), req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}

// Delete handles DELETE /api/v1/admin/incentives/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}
