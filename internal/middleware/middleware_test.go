package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/redis"
	"teamchat/internal/services"
	teamchat_errors "teamchat/pkg/errors"
	"teamchat/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser map[string]domain.UserID

func (f fakeParser) ParseAccessToken(token string) (domain.UserID, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return domain.UserID{}, teamchat_errors.ErrUnauthorized
}

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	id, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.String())
}

func TestAuthMiddleware(t *testing.T) {
	user := domain.New[domain.UserID]()
	r := gin.New()
	r.GET("/me", AuthMiddleware(fakeParser{"good": user}), whoAmI)

	for _, tc := range []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
		{name: "header", header: "Bearer good", status: http.StatusOK},
		{name: "query", query: "?token=good", status: http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, user.String(), w.Body.String())
			}
		})
	}
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	user := domain.New[domain.UserID]()
	r := gin.New()
	r.GET("/me", OptionalAuth(fakeParser{"good": user}), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, user.String(), w.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, fmt.Sprint(c.Request.Context().Value(logger.RequestIdKey)))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 32)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}

func TestErrorHandlerMapsDomainErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.NewNop()))
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(teamchat_errors.ErrNotFound) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("db password leaked")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	check := OriginChecker([]string{"https://app.example"})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))
}

func TestMessageRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	limiter := redis.NewRateLimiter(client, redis.RateLimitConfig{MessageLimit: 2, MessageWindow: time.Minute})

	user := domain.New[domain.UserID]()
	r := gin.New()
	r.POST("/messages", AuthMiddleware(fakeParser{"good": user}), MessageRateLimitMiddleware(limiter, logger.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader("{}"))
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if i == 0 {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	// a broker outage lets traffic through
	mr.Close()
	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestNilLimiterPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", ReactionRateLimitMiddleware(nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsRecordsRouteTemplates(t *testing.T) {
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/messages/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/123", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `teamchat_http_requests_total{method="GET",route="/messages/:id",status="200"} 1`)
	assert.NotContains(t, body, "/messages/123")
}
