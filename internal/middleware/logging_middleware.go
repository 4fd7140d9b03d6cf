package middleware

import (
	"time"

	"teamchat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func LoggingMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		if log == nil {
			return
		}
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= 500 {
			log.Error(c.Request.Context(), "request", fields...)
			return
		}
		log.Info(c.Request.Context(), "request", fields...)
	}
}
