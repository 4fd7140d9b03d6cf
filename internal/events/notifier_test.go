package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	channels []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestNotifyPublishesToWorkspaceFeed(t *testing.T) {
	pub := &recordingPublisher{}
	env, err := NewEnvelope(EventTypeMessageCreated, AggregateMessage, "m1", "w1", map[string]string{"body": "hi"})
	require.NoError(t, err)

	require.NoError(t, NewPubSubNotifier(pub).Notify(context.Background(), env))
	require.Equal(t, []string{"channel:workspace:w1"}, pub.channels)

	var got Envelope
	require.NoError(t, json.Unmarshal(pub.payloads[0], &got))
	assert.Equal(t, EventTypeMessageCreated, got.EventType)
	assert.JSONEq(t, `{"body":"hi"}`, string(got.Payload))
}

func TestNotifyWithoutWorkspaceIsDropped(t *testing.T) {
	pub := &recordingPublisher{}
	require.NoError(t, NewPubSubNotifier(pub).Notify(context.Background(), Envelope{EventType: "x"}))
	assert.Empty(t, pub.channels)
}

func TestNotifyWrapsPublishError(t *testing.T) {
	boom := errors.New("down")
	pub := &recordingPublisher{err: boom}
	err := NewPubSubNotifier(pub).Notify(context.Background(), Envelope{WorkspaceID: "w"})
	assert.ErrorIs(t, err, boom)
}

func TestWorkspaceFromChannel(t *testing.T) {
	id, ok := WorkspaceFromChannel(WorkspaceChannel("abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = WorkspaceFromChannel("channel:user:abc")
	assert.False(t, ok)
}
