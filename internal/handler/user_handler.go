package handler

import (
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.service.Current(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		ok[*httpdto.User](c, nil)
		return
	}
	dto := httpdto.NewUser(*u)
	ok(c, &dto)
}
