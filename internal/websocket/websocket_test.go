package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/events"
	"teamchat/internal/services"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticMembers map[domain.WorkspaceID]domain.UserID

func (m staticMembers) CanSubscribe(_ context.Context, userID domain.UserID, ws domain.WorkspaceID) (bool, error) {
	return m[ws] == userID, nil
}

func TestChannelAuthorizer(t *testing.T) {
	ctx := context.Background()
	user := domain.New[domain.UserID]()
	ws := domain.New[domain.WorkspaceID]()
	a := NewChannelAuthorizer(staticMembers{ws: user})

	ok, err := a.CanSubscribe(ctx, user, events.WorkspaceChannel(ws.String()))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = a.CanSubscribe(ctx, domain.New[domain.UserID](), events.WorkspaceChannel(ws.String()))
	assert.False(t, ok)

	ok, _ = a.CanSubscribe(ctx, user, "channel:system:all")
	assert.False(t, ok)

	ok, _ = a.CanSubscribe(ctx, user, events.WorkspaceChannel("not-a-uuid"))
	assert.False(t, ok)
}

func startServer(t *testing.T, hub *Hub, authorizer Authorizer, user domain.UserID) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(hub, authorizer, nil, nil)
	r.GET("/ws", func(c *gin.Context) {
		c.Request = c.Request.WithContext(services.WithUserContext(c.Request.Context(), user))
		c.Next()
	}, h.Connect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func readServerMessage(t *testing.T, conn *gorilla.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSubscribeAndReceiveWorkspaceEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	user := domain.New[domain.UserID]()
	ws := domain.New[domain.WorkspaceID]()
	other := domain.New[domain.WorkspaceID]()
	url := startServer(t, hub, NewChannelAuthorizer(staticMembers{ws: user}), user)

	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ClientMessage{Action: "subscribe", WorkspaceID: other.String()}))
	assert.Equal(t, "forbidden", readServerMessage(t, conn)["error"])

	require.NoError(t, conn.WriteJSON(ClientMessage{Action: "subscribe", WorkspaceID: ws.String()}))
	assert.Equal(t, "subscribed", readServerMessage(t, conn)["type"])
	channel := events.WorkspaceChannel(ws.String())
	require.Eventually(t, func() bool { return hub.SubscriberCount(channel) == 1 }, time.Second, 5*time.Millisecond)

	notifier := events.NewPubSubNotifier(hub)
	env, err := events.NewEnvelope(events.EventTypeMessageCreated, events.AggregateMessage, "m1", ws.String(), nil)
	require.NoError(t, err)
	require.NoError(t, notifier.Notify(ctx, env))

	got := readServerMessage(t, conn)
	assert.Equal(t, events.EventTypeMessageCreated, got["event_type"])
	assert.Equal(t, ws.String(), got["workspace_id"])
}

func TestConnectRequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", NewHandler(NewHub(), NewChannelAuthorizer(staticMembers{}), nil, nil).Connect)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHubRemovesClientSubscriptions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	client := &Client{ID: "c1", Send: make(chan []byte, 1), channels: map[string]bool{}}
	hub.Register(client)
	hub.Subscribe(client, "channel:workspace:a")
	require.Eventually(t, func() bool { return hub.SubscriberCount("channel:workspace:a") == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("channel:workspace:a", []byte("x"))
	hub.Broadcast("channel:workspace:a", []byte("dropped"))
	assert.Equal(t, []byte("x"), <-client.Send)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, hub.SubscriberCount("channel:workspace:a"))
	_, open := <-client.Send
	assert.False(t, open)
}
