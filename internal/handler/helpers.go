package handler

import (
	"net/http"
	"strconv"

	"teamchat/internal/domain"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes the mapped status and records err for ErrorHandler to
// log.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := services.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, httpdto.NewErrorResponse(msg, services.ErrorCode(err)))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(msg, "INVALID_REQUEST"))
}

func ok[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(data))
}

func created(c *gin.Context, id uuid.UUID) {
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.IDResponse{ID: id.String()}))
}

func okID(c *gin.Context, id uuid.UUID) {
	ok(c, httpdto.IDResponse{ID: id.String()})
}

// pathID parses the named path parameter, answering 400 when it is not an id.
func pathID[T ~struct{ uuid.UUID }](c *gin.Context, name string) (T, bool) {
	id, err := domain.Parse[T](c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return id, false
	}
	return id, true
}

// optionalID parses an optional id from a body field or query value.
func optionalID[T ~struct{ uuid.UUID }](c *gin.Context, name, raw string) (*T, bool) {
	id, err := domain.ParseOptional[T](raw)
	if err != nil {
		badRequest(c, "invalid "+name)
		return nil, false
	}
	return id, true
}

func caller(c *gin.Context) domain.UserID {
	return services.CallerFromContext(c.Request.Context())
}

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
