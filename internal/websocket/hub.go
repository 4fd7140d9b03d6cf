package websocket

import (
	"context"
	"sync"
)

type opKind int

const (
	opRegister opKind = iota
	opUnregister
	opSubscribe
	opUnsubscribe
)

type hubOp struct {
	kind    opKind
	client  *Client
	channel string
}

// Hub tracks connected clients and the workspace feeds each one follows.
// Registrations and subscriptions go through one queue so they apply in the
// order a connection issued them.
type Hub struct {
	mu sync.RWMutex

	clients  map[string]*Client
	channels map[string]map[*Client]struct{}

	ops chan hubOp
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		channels: make(map[string]map[*Client]struct{}),
		ops:      make(chan hubOp, 1024),
	}
}

// Run applies queued operations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-h.ops:
			switch op.kind {
			case opRegister:
				h.addClient(op.client)
			case opUnregister:
				h.removeClient(op.client)
			case opSubscribe:
				h.subscribeToChannel(op.client, op.channel)
			case opUnsubscribe:
				h.unsubscribeFromChannel(op.client, op.channel)
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.ops <- hubOp{kind: opRegister, client: client}
}

func (h *Hub) Unregister(client *Client) {
	h.ops <- hubOp{kind: opUnregister, client: client}
}

func (h *Hub) Subscribe(client *Client, channel string) {
	h.ops <- hubOp{kind: opSubscribe, client: client, channel: channel}
}

func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.ops <- hubOp{kind: opUnsubscribe, client: client, channel: channel}
}

// Broadcast queues payload on every client following channel. Slow
// clients drop messages rather than block the fan-out.
func (h *Hub) Broadcast(channel string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.channels[channel] {
		c.SendMessage(payload)
	}
}

// Publish lets the hub stand in for a broker when the process runs alone.
func (h *Hub) Publish(_ context.Context, channel string, payload []byte) error {
	h.Broadcast(channel, payload)
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	for _, channel := range client.Channels() {
		h.dropSubscriber(channel, client)
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) subscribeToChannel(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]struct{})
	}
	h.channels[channel][client] = struct{}{}
	client.track(channel)
}

func (h *Hub) unsubscribeFromChannel(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropSubscriber(channel, client)
	client.untrack(channel)
}

// dropSubscriber must be called with h.mu held.
func (h *Hub) dropSubscriber(channel string, client *Client) {
	if subscribers, ok := h.channels[channel]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.channels, channel)
		}
	}
}
