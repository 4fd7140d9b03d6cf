package middleware

import (
	"context"
	"net/http"
	"strconv"

	"teamchat/internal/redis"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"
	"teamchat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type limitFunc func(ctx context.Context, userID string) (*redis.RateLimitResult, error)

// MessageRateLimitMiddleware limits message creation per user. Apply it
// after AuthMiddleware.
func MessageRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return passthrough
	}
	return userRateLimit(limiter.AllowMessage, "message rate limit exceeded", l)
}

// ReactionRateLimitMiddleware limits reaction toggles per user.
func ReactionRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return passthrough
	}
	return userRateLimit(limiter.AllowReaction, "reaction rate limit exceeded", l)
}

// WebSocketRateLimitMiddleware limits how often a user may open sockets.
func WebSocketRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return passthrough
	}
	return userRateLimit(limiter.AllowWebSocket, "connection rate limit exceeded", l)
}

func passthrough(c *gin.Context) { c.Next() }

// userRateLimit fails open when Redis is unreachable so that a broker outage
// degrades to unlimited rather than to an unusable API.
func userRateLimit(allow limitFunc, message string, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		result, err := allow(c.Request.Context(), userID.String())
		if err != nil {
			if l != nil {
				l.Warn(c.Request.Context(), "rate limiter unavailable", zap.Error(err))
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(message, "RATE_LIMITED"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
