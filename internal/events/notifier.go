package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher is the transport a Notifier writes to; redis.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Subscriber delivers messages published on channels matching any of the
// given patterns until ctx ends.
type Subscriber interface {
	Subscribe(ctx context.Context, patterns []string, handler func(channel string, payload []byte)) error
}

// Notifier fans domain events out to realtime subscribers.
type Notifier interface {
	Notify(ctx context.Context, env Envelope) error
}

type PubSubNotifier struct {
	publisher Publisher
}

func NewPubSubNotifier(publisher Publisher) *PubSubNotifier {
	return &PubSubNotifier{publisher: publisher}
}

func (n *PubSubNotifier) Notify(ctx context.Context, env Envelope) error {
	channels := ResolveChannels(env)
	if len(channels) == 0 {
		return nil
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	for _, channel := range channels {
		if err := n.publisher.Publish(ctx, channel, data); err != nil {
			return fmt.Errorf("publish to %s: %w", channel, err)
		}
	}
	return nil
}

// NopNotifier drops every event. Used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Envelope) error { return nil }
