package handler

import (
	"teamchat/internal/domain"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	service *services.ChannelService
}

func NewChannelHandler(service *services.ChannelService) *ChannelHandler {
	return &ChannelHandler{service: service}
}

func (h *ChannelHandler) Create(c *gin.Context) {
	workspaceID, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	var req httpdto.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	id, err := h.service.Create(c.Request.Context(), caller(c), workspaceID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, id.UUID)
}

func (h *ChannelHandler) List(c *gin.Context) {
	workspaceID, valid := pathID[domain.WorkspaceID](c, "id")
	if !valid {
		return
	}
	items, err := h.service.List(c.Request.Context(), caller(c), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]httpdto.Channel, 0, len(items))
	for _, ch := range items {
		out = append(out, httpdto.NewChannel(ch))
	}
	ok(c, out)
}

func (h *ChannelHandler) Get(c *gin.Context) {
	id, valid := pathID[domain.ChannelID](c, "id")
	if !valid {
		return
	}
	ch, err := h.service.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if ch == nil {
		ok[*httpdto.Channel](c, nil)
		return
	}
	dto := httpdto.NewChannel(*ch)
	ok(c, &dto)
}

func (h *ChannelHandler) Update(c *gin.Context) {
	id, valid := pathID[domain.ChannelID](c, "id")
	if !valid {
		return
	}
	var req httpdto.UpdateChannelRequest
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

func (h *ChannelHandler) Remove(c *gin.Context) {
	id, valid := pathID[domain.ChannelID](c, "id")
	if !valid {
		return
	}
	if _, err := h.service.Remove(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}
