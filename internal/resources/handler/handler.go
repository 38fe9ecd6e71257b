package handler

import (
	"net/http"

	"educater_backend/internal/resources/repository"
	"educater_backend/internal/resources/service"
	"educater_backend/internal/resources/transport"
	"educater_backend/platform/httpkit"
	"educater_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the resource libraries.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new resources handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the read-side resource routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:library", h.List)
	rg.GET("/:library/:id/download", h.Download)
}

// RegisterAdminRoutes registers the admin-only resource routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/:library/upload", h.Upload)
	rg.POST("/:library", h.Create)
	rg.DELETE("/:library/:id", h.Delete)
}

// List handles GET /api/v1/resources/:library
func (h *Handler) List(c *gin.Context) {
	resources, err := h.svc.List(c.Request.Context(), repository.Library(c.Param("library")))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromResourceList(resources))
}

// Download handles GET /api/v1/resources/:library/:id/download
func (h *Handler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	presigned, err := h.svc.DownloadURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}

// Upload handles POST /api/v1/admin/resources/:library/upload
func (h *Handler) Upload(c *gin.Context) {
	var req transport.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	presigned, err := h.svc.RequestUpload(c.Request.Context(), repository.Library(c.Param("library")), req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}

// Create handles POST /api/v1/admin/resources/:library
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateResourceRequest
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

	res, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Library:     repository.Library(c.Param("library")),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		FileKey:     req.FileKey,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		UploadedBy:  identity.DisplayName(),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromResource(res))
}

// Delete handles DELETE /api/v1/admin/resources/:library/:id
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
