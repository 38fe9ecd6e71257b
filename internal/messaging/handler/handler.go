package handler

import (
	"net/http"

	"educater_backend/internal/messaging/service"
	"educater_backend/internal/messaging/transport"
	"educater_backend/platform/httpkit"
	"educater_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for team messaging.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new messaging handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the messaging routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/groups", h.ListGroups)
	rg.POST("/groups", h.CreateGroup)
	rg.GET("/groups/:id/messages", h.GroupMessages)
	rg.POST("/groups/:id/messages", h.PostGroupMessage)

	rg.GET("/conversations", h.ListConversations)
	rg.GET("/conversations/:repId/messages", h.ConversationMessages)
	rg.POST("/conversations/:repId/messages", h.PostDirectMessage)
}

// RegisterAdminRoutes registers admin-only messaging routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/groups/:id", h.DeleteGroup)
}

// ListGroups handles GET /api/v1/messaging/groups
func (h *Handler) ListGroups(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	groups, err := h.svc.ListGroups(c.Request.Context(), identity.RepID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromGroupList(groups))
}

// CreateGroup handles POST /api/v1/messaging/groups
func (h *Handler) CreateGroup(c *gin.Context) {
	var req transport.CreateGroupRequest
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

	group, err := h.svc.CreateGroup(c.Request.Context(), service.CreateGroupParams{
		Name:      req.Name,
		CreatedBy: identity.RepID(),
		MemberIDs: req.MemberIDs,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromGroup(group))
}

// DeleteGroup handles DELETE /api/v1/admin/messaging/groups/:id
func (h *Handler) DeleteGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteGroup(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// GroupMessages handles GET /api/v1/messaging/groups/:id/messages
func (h *Handler) GroupMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	messages, err := h.svc.GroupMessages(c.Request.Context(), id, identity.RepID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromMessageList(messages))
}

// PostGroupMessage handles POST /api/v1/messaging/groups/:id/messages
func (h *Handler) PostGroupMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.PostMessageRequest
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

	msg, err := h.svc.PostGroupMessage(c.Request.Context(), id, identity.RepID(), identity.DisplayName(), req.Body)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromMessage(msg))
}

// ListConversations handles GET /api/v1/messaging/conversations
func (h *Handler) ListConversations(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	convs, err := h.svc.ListConversations(c.Request.Context(), identity.RepID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromConversationList(convs, identity.RepID()))
}

// ConversationMessages handles GET /api/v1/messaging/conversations/:repId/messages
func (h *Handler) ConversationMessages(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	messages, err := h.svc.ConversationMessages(c.Request.Context(), identity.RepID(), c.Param("repId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromMessageList(messages))
}

// PostDirectMessage handles POST /api/v1/messaging/conversations/:repId/messages
func (h *Handler) PostDirectMessage(c *gin.Context) {
	var req transport.PostMessageRequest
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

	msg, err := h.svc.PostDirectMessage(c.Request.Context(), identity.RepID(), identity.DisplayName(), c.Param("repId"), req.Body)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromMessage(msg))
}
