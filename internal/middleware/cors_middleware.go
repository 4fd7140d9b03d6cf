package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware answers preflight requests and echoes allowed origins.
// A "*" entry allows any origin.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowAll := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || slices.Contains(origins, origin)) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", strings.Join([]string{"Authorization", "Content-Type", RequestIDHeader}, ", "))
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Expose-Headers", strings.Join([]string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}, ", "))
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// OriginChecker adapts the same allow list for websocket upgrades.
func OriginChecker(origins []string) func(r *http.Request) bool {
	allowAll := slices.Contains(origins, "*")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowAll || slices.Contains(origins, origin)
	}
}
