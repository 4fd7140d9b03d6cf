package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher writes event payloads to Redis pub/sub; events.PubSubNotifier
// uses it so every instance's websocket bridge sees every workspace event.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish succeeds even when no instance is subscribed.
func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}
