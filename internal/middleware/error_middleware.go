package middleware

import (
	"net/http"

	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"
	"teamchat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error when
// the handler did not write a response itself.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := services.HTTPStatus(err)
		if status >= http.StatusInternalServerError && l != nil {
			l.Error(c.Request.Context(), "request failed", zap.Error(err))
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(status, httpdto.NewErrorResponse(publicMessage(status, err), services.ErrorCode(err)))
	}
}

// publicMessage hides internal failures from clients.
func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		return "internal error"
	}
	return err.Error()
}
