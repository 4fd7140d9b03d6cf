package events

import (
	"encoding/json"
	"time"
)

type Envelope struct {
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	WorkspaceID   string          `json:"workspace_id"`
	ActorID       string          `json:"actor_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into a fresh envelope. A nil payload is omitted.
func NewEnvelope(eventType, aggregateType, aggregateID, workspaceID string, payload any) (Envelope, error) {
	env := Envelope{
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		WorkspaceID:   workspaceID,
		OccurredAt:    time.Now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, err
		}
		env.Payload = raw
	}
	return env, nil
}
