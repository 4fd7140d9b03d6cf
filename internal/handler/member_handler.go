package handler

import (
	"teamchat/internal/domain"
	"teamchat/internal/domain/member"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	service *services.MemberService
}

func NewMemberHandler(service *services.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

func (h *MemberHandler) List(c *gin.Context) {
	workspaceID, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	items, err := h.service.List(c.Request.Context(), caller(c), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]httpdto.MemberWithUser, 0, len(items))
	for _, m := range items {
		out = append(out, httpdto.NewMemberWithUser(m))
	}
	ok(c, out)
}

func (h *MemberHandler) Current(c *gin.Context) {
	workspaceID, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	m, err := h.service.Current(c.Request.Context(), caller(c), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}
	if m == nil {
		ok[*httpdto.Member](c, nil)
		return
	}
	dto := httpdto.NewMember(*m)
	ok(c, &dto)
}

func (h *MemberHandler) Get(c *gin.Context) {
	id, valid := pathID[domain.MemberID](c, "id")
	if !valid {
		return
	}
	m, err := h.service.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if m == nil {
		ok[*httpdto.MemberWithUser](c, nil)
		return
	}
	dto := httpdto.NewMemberWithUser(*m)
	ok(c, &dto)
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	id, valid := pathID[domain.MemberID](c, "id")
	if !valid {
		return
	}
	var req httpdto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	if _, err := h.service.UpdateRole(c.Request.Context(), caller(c), id, member.Role(req.Role)); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}

func (h *MemberHandler) Remove(c *gin.Context) {
	id, valid := pathID[domain.MemberID](c, "id")
	if !valid {
		return
	}
	if _, err := h.service.Remove(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}
