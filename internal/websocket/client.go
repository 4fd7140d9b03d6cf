package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"teamchat/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Client is one websocket connection of an authenticated user.
type Client struct {
	ID     string
	UserID domain.UserID
	Conn   *websocket.Conn
	Send   chan []byte

	mu       sync.RWMutex
	channels map[string]bool
}

// ClientMessage is a control frame sent by the browser.
type ClientMessage struct {
	Action      string `json:"action"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// ServerMessage acknowledges a control frame.
type ServerMessage struct {
	Type        string `json:"type"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

func NewClient(conn *websocket.Conn, userID domain.UserID) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		channels: make(map[string]bool),
	}
}

func (c *Client) track(channel string) {
	c.mu.Lock()
	c.channels[channel] = true
	c.mu.Unlock()
}

func (c *Client) untrack(channel string) {
	c.mu.Lock()
	delete(c.channels, channel)
	c.mu.Unlock()
}

func (c *Client) IsSubscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels[channel]
}

func (c *Client) Channels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	channels := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		channels = append(channels, ch)
	}
	return channels
}

// SendMessage queues msg without blocking; a full buffer drops it.
func (c *Client) SendMessage(msg []byte) {
	select {
	case c.Send <- msg:
	default:
	}
}

func (c *Client) reply(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.SendMessage(data)
}

// ReadLoop hands every control frame to handle until the peer goes away.
func (c *Client) ReadLoop(handle func(ClientMessage)) error {
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(ServerMessage{Type: "error", Error: "malformed message"})
			continue
		}
		handle(msg)
	}
}

// WriteLoop drains Send and keeps the connection alive with pings.
func (c *Client) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
