package handler

import (
	"context"
	"net/http"

	"educater_backend/internal/reps/service"
	"educater_backend/internal/reps/transport"
	"educater_backend/internal/storage"
	"educater_backend/platform/httpkit"
	"educater_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for rep profiles.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new reps handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the rep routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/me", h.Me)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/avatar-upload", h.AvatarUpload)
	rg.GET("/:id/avatar", h.AvatarDownload)
	rg.POST("/:id/bank-proof-upload", h.BankProofUpload)
	rg.GET("/:id/bank-proof", h.BankProofDownload)
}

// RegisterAdminRoutes registers the admin-only rep routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.DELETE("/:id", h.Delete)
}

// canViewPrivate reports whether the caller may see banking details and
// manage uploads for the given rep.
func canViewPrivate(identity httpkit.Identity, repID string) bool {
	return identity.IsAdmin() || identity.RepID() == repID
}

// List handles GET /api/v1/reps
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	reps, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.RepResponse, len(reps))
	for i, rep := range reps {
		if canViewPrivate(identity, rep.ID) {
			out[i] = transport.FromRep(rep)
		} else {
			out[i] = transport.FromRepPublic(rep)
		}
	}
	httpkit.OK(c, out)
}

// Me handles GET /api/v1/reps/me
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	rep, err := h.svc.Get(c.Request.Context(), identity.RepID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromRep(rep))
}

// GetByID handles GET /api/v1/reps/:id
func (h *Handler) GetByID(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	rep, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	if canViewPrivate(identity, rep.ID) {
		httpkit.OK(c, transport.FromRep(rep))
		return
	}
	httpkit.OK(c, transport.FromRepPublic(rep))
}

// Create handles POST /api/v1/admin/reps
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateRepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	rep, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Password: req.Password,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromRep(rep))
}

// Update handles PATCH /api/v1/reps/:id
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	repID := c.Param("id")
	if !canViewPrivate(identity, repID) {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	var req transport.UpdateRepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	rep, err := h.svc.Update(c.Request.Context(), repID, req.ToParams())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromRep(rep))
}

// Delete handles DELETE /api/v1/admin/reps/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// AvatarUpload handles POST /api/v1/reps/:id/avatar-upload
func (h *Handler) AvatarUpload(c *gin.Context) {
	h.upload(c, h.svc.RequestAvatarUpload)
}

// BankProofUpload handles POST /api/v1/reps/:id/bank-proof-upload
func (h *Handler) BankProofUpload(c *gin.Context) {
	h.upload(c, h.svc.RequestBankProofUpload)
}

// AvatarDownload handles GET /api/v1/reps/:id/avatar
func (h *Handler) AvatarDownload(c *gin.Context) {
	presigned, err := h.svc.AvatarDownloadURL(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}

// BankProofDownload handles GET /api/v1/reps/:id/bank-proof
func (h *Handler) BankProofDownload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	repID := c.Param("id")
	if !canViewPrivate(identity, repID) {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	presigned, err := h.svc.BankProofDownloadURL(c.Request.Context(), repID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}

type uploadFunc func(ctx context.Context, repID, fileName, contentType string, size int64) (*storage.PresignedURL, error)

func (h *Handler) upload(c *gin.Context, request uploadFunc) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	repID := c.Param("id")
	if !canViewPrivate(identity, repID) {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	var req transport.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	presigned, err := request(c.Request.Context(), repID, req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}
