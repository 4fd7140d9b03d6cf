package handler

import (
	"teamchat/internal/domain"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	service *services.WorkspaceService
}

func NewWorkspaceHandler(service *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{service: service}
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req httpdto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	id, err := h.service.Create(c.Request.Context(), caller(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, id.UUID)
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]httpdto.Workspace, 0, len(items))
	for _, ws := range items {
		out = append(out, httpdto.NewWorkspace(ws))
	}
	ok(c, out)
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	id, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	ws, err := h.service.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if ws == nil {
		ok[*httpdto.Workspace](c, nil)
		return
	}
	dto := httpdto.NewWorkspace(*ws)
	ok(c, &dto)
}

func (h *WorkspaceHandler) Info(c *gin.Context) {
	id, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	info, err := h.service.GetInfo(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if info == nil {
		ok[*httpdto.WorkspaceInfo](c, nil)
		return
	}
	ok(c, &httpdto.WorkspaceInfo{Name: info.Name, IsMember: info.IsMember})
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	id, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	var req httpdto.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	if _, err := h.service.Update(c.Request.Context(), caller(c), id, req.Name); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}

func (h *WorkspaceHandler) Remove(c *gin.Context) {
	id, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	if _, err := h.service.Remove(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}

func (h *WorkspaceHandler) NewJoinCode(c *gin.Context) {
	id, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	if _, err := h.service.NewJoinCode(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}

func (h *WorkspaceHandler) Join(c *gin.Context) {
	id, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	var req httpdto.JoinWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	if _, err := h.service.Join(c.Request.Context(), caller(c), id, req.JoinCode); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}
