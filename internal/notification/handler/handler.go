package handler

import (
	"net/http"

	"educater_backend/internal/notification/push"
	"educater_backend/internal/notification/sse"
	"educater_backend/platform/httpkit"
	"educater_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// RegisterPushTokenRequest registers a device token for push delivery.
type RegisterPushTokenRequest struct {
	Token    string `json:"token" validate:"required,min=1,max=512"`
	Platform string `json:"platform" validate:"required,oneof=web android ios"`
}

// UnregisterPushTokenRequest removes a device token.
type UnregisterPushTokenRequest struct {
	Token string `json:"token" validate:"required,min=1,max=512"`
}

// Handler handles HTTP requests for the notification module.
type Handler struct {
	stream *sse.Service
	tokens *push.Repository
	val    *validator.Validator
}

// New creates a new notification handler.
func New(stream *sse.Service, tokens *push.Repository, val *validator.Validator) *Handler {
	return &Handler{stream: stream, tokens: tokens, val: val}
}

// RegisterRoutes registers the notification routes. The stream route relies
// on the auth middleware's query-param token fallback since EventSource
// cannot set headers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stream", h.stream.Handler(repIDFromContext))
	rg.POST("/push-token", h.RegisterPushToken)
	rg.DELETE("/push-token", h.UnregisterPushToken)
}

func repIDFromContext(c *gin.Context) (string, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return "", false
	}
	return identity.RepID(), true
}

// RegisterPushToken handles POST /api/v1/notifications/push-token
func (h *Handler) RegisterPushToken(c *gin.Context) {
	var req RegisterPushTokenRequest
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

	if httpkit.HandleError(c, h.tokens.Register(c.Request.Context(), identity.RepID(), req.Token, req.Platform)) {
		return
	}
	httpkit.NoContent(c)
}

// UnregisterPushToken handles DELETE /api/v1/notifications/push-token
func (h *Handler) UnregisterPushToken(c *gin.Context) {
	var req UnregisterPushTokenRequest
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

	if httpkit.HandleError(c, h.tokens.Unregister(c.Request.Context(), identity.RepID(), req.Token)) {
		return
	}
	httpkit.NoContent(c)
}
