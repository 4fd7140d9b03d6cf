package handler

import (
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) Create(c *gin.Context) {
	var req httpdto.CreateUploadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
	}
	ticket, err := h.service.GenerateUploadURL(c.Request.Context(), caller(c), services.UploadInput{
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, httpdto.NewUploadTicket(ticket))
}
