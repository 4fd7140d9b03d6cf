package websocket

import (
	"context"

	"teamchat/internal/events"
)

// RedisBridge relays every workspace feed from the broker into the hub so
// that events published by any API instance reach this instance's sockets.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{events.WorkspaceChannelPattern}, func(channel string, payload []byte) {
		if _, ok := events.WorkspaceFromChannel(channel); !ok {
			return
		}
		b.hub.Broadcast(channel, payload)
	})
}
