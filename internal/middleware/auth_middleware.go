package middleware

import (
	"net/http"
	"strings"

	"teamchat/internal/domain"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// TokenParser resolves a bearer token to the user it was issued for.
type TokenParser interface {
	ParseAccessToken(token string) (domain.UserID, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parser.ParseAccessToken(extractBearer(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(services.WithUserContext(c.Request.Context(), userID))
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// the request through anonymously otherwise. Queries then answer with empty
// results instead of errors.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token != "" {
			if userID, err := parser.ParseAccessToken(token); err == nil {
				c.Request = c.Request.WithContext(services.WithUserContext(c.Request.Context(), userID))
			}
		}
		c.Next()
	}
}

// extractBearer reads the Authorization header, falling back to the token
// query parameter browsers must use for websocket upgrades.
func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(c.Query("token"))
}
