package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamchat/config"
	"teamchat/internal/handler"
	"teamchat/internal/middleware"
	"teamchat/internal/redis"
	"teamchat/internal/transport/httpdto"
	"teamchat/internal/websocket"
	"teamchat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Workspaces    *handler.WorkspaceHandler
	Channels      *handler.ChannelHandler
	Members       *handler.MemberHandler
	Conversations *handler.ConversationHandler
	Messages      *handler.MessageHandler
	Uploads       *handler.UploadHandler
	Users         *handler.UserHandler
	WebSocket     *websocket.Handler
}

// Deps are the cross-cutting collaborators routes are wrapped with.
// RateLimiter and Health may be nil.
type Deps struct {
	Auth        middleware.TokenParser
	RateLimiter *redis.RateLimiter
	Metrics     *middleware.Metrics
	Health      func(ctx context.Context) error
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode || cfg.AppMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) SetupRoutes(h *Handlers, deps Deps) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.CORSOrigins))
	if deps.Metrics != nil {
		s.engine.Use(deps.Metrics.Middleware())
	}
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
				return
			}
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	if deps.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	required := middleware.AuthMiddleware(deps.Auth)
	optional := middleware.OptionalAuth(deps.Auth)

	v1 := s.engine.Group("/v1")

	workspaces := v1.Group("/workspaces")
	{
		workspaces.POST("", required, h.Workspaces.Create)
		workspaces.GET("", optional, h.Workspaces.List)
		workspaces.GET("/:id", optional, h.Workspaces.Get)
		workspaces.GET("/:id/info", optional, h.Workspaces.Info)
		workspaces.PATCH("/:id", required, h.Workspaces.Update)
		workspaces.DELETE("/:id", required, h.Workspaces.Remove)
		workspaces.POST("/:id/join-code", required, h.Workspaces.NewJoinCode)
		workspaces.POST("/:id/join", required, h.Workspaces.Join)

		workspaces.POST("/:id/channels", required, h.Channels.Create)
		workspaces.GET("/:id/channels", optional, h.Channels.List)

		workspaces.GET("/:id/members", optional, h.Members.List)
		workspaces.GET("/:id/members/current", optional, h.Members.Current)

		workspaces.POST("/:id/conversations", required, h.Conversations.CreateOrGet)
	}

	channels := v1.Group("/channels")
	{
		channels.GET("/:id", optional, h.Channels.Get)
		channels.PATCH("/:id", required, h.Channels.Update)
		channels.DELETE("/:id", required, h.Channels.Remove)
	}

	members := v1.Group("/members")
	{
		members.GET("/:id", optional, h.Members.Get)
		members.PATCH("/:id", required, h.Members.UpdateRole)
		members.DELETE("/:id", required, h.Members.Remove)
	}

	messages := v1.Group("/messages")
	{
		messages.POST("", required, middleware.MessageRateLimitMiddleware(deps.RateLimiter, s.logger), h.Messages.Create)
		messages.GET("", optional, h.Messages.List)
		messages.GET("/:id", optional, h.Messages.Get)
		messages.PATCH("/:id", required, h.Messages.Update)
		messages.DELETE("/:id", required, h.Messages.Remove)
		messages.POST("/:id/reactions", required, middleware.ReactionRateLimitMiddleware(deps.RateLimiter, s.logger), h.Messages.ToggleReaction)
	}

	v1.POST("/uploads", required, h.Uploads.Create)
	v1.GET("/users/me", optional, h.Users.Me)

	if h.WebSocket != nil {
		v1.GET("/ws", required, middleware.WebSocketRateLimitMiddleware(deps.RateLimiter, s.logger), h.WebSocket.Connect)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}
	return nil
}
