package websocket

import (
	"context"
	"net/http"

	"teamchat/internal/domain"
	"teamchat/internal/events"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"
	"teamchat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Authorizer decides whether a user may follow a feed channel.
type Authorizer interface {
	CanSubscribe(ctx context.Context, userID domain.UserID, channel string) (bool, error)
}

type Handler struct {
	hub        *Hub
	authorizer Authorizer
	upgrader   websocket.Upgrader
	logger     *logger.Logger
}

// NewHandler builds the /ws endpoint. checkOrigin may be nil to accept any
// origin.
func NewHandler(hub *Hub, authorizer Authorizer, checkOrigin func(r *http.Request) bool, l *logger.Logger) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &Handler{
		hub:        hub,
		authorizer: authorizer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: l,
	}
}

// Connect upgrades an authenticated request and serves control frames until
// the socket closes.
func (h *Handler) Connect(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(conn, userID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithUserID(ctx, userID.String())

	h.hub.Register(client)
	go client.WriteLoop(ctx)

	if err := client.ReadLoop(func(msg ClientMessage) { h.handleMessage(ctx, client, msg) }); err != nil {
		h.logger.Warn(ctx, "websocket closed unexpectedly", zap.String("client_id", client.ID), zap.Error(err))
	}
	h.hub.Unregister(client)
}

func (h *Handler) handleMessage(ctx context.Context, client *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		channel := events.WorkspaceChannel(msg.WorkspaceID)
		allowed, err := h.authorizer.CanSubscribe(ctx, client.UserID, channel)
		if err != nil {
			h.logger.Error(ctx, "subscription check failed", zap.String("workspace_id", msg.WorkspaceID), zap.Error(err))
			client.reply(ServerMessage{Type: "error", WorkspaceID: msg.WorkspaceID, Error: "subscription failed"})
			return
		}
		if !allowed {
			client.reply(ServerMessage{Type: "error", WorkspaceID: msg.WorkspaceID, Error: "forbidden"})
			return
		}
		h.hub.Subscribe(client, channel)
		client.reply(ServerMessage{Type: "subscribed", WorkspaceID: msg.WorkspaceID})
	case "unsubscribe":
		h.hub.Unsubscribe(client, events.WorkspaceChannel(msg.WorkspaceID))
		client.reply(ServerMessage{Type: "unsubscribed", WorkspaceID: msg.WorkspaceID})
	case "ping":
		client.reply(ServerMessage{Type: "pong"})
	default:
		client.reply(ServerMessage{Type: "error", Error: "unknown action"})
	}
}
