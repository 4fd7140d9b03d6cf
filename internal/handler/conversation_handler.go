package handler

import (
	"teamchat/internal/domain"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	service *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// CreateOrGet answers with the id of the direct conversation with the
// requested member, opening it on first use.
func (h *ConversationHandler) CreateOrGet(c *gin.Context) {
	workspaceID, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	var req httpdto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	memberID, err := domain.Parse[domain.MemberID](req.MemberID)
	if err != nil {
		badRequest(c, "invalid member_id")
		return
	}
	id, err := h.service.CreateOrGet(c.Request.Context(), caller(c), workspaceID, memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}
