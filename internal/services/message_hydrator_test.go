package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/domain/message"
	"teamchat/internal/domain/user"
	"teamchat/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reaction(member domain.MemberID, value string) message.Reaction {
	return message.Reaction{ID: domain.New[domain.ReactionID](), MemberID: member, Value: value}
}

func TestSummarizeReactionsGroupsByValue(t *testing.T) {
	a, b, c := domain.New[domain.MemberID](), domain.New[domain.MemberID](), domain.New[domain.MemberID]()
	got := SummarizeReactions([]message.Reaction{
		reaction(a, "👍"),
		reaction(b, "🎉"),
		reaction(b, "👍"),
		reaction(a, "👍"), // duplicate row from a toggle race
		reaction(c, "👍"),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "👍", got[0].Value)
	assert.Equal(t, 4, got[0].Count)
	assert.ElementsMatch(t, []domain.MemberID{a, b, c}, got[0].MemberIDs)
	assert.Equal(t, "🎉", got[1].Value)
	assert.Equal(t, 1, got[1].Count)
	assert.Equal(t, []domain.MemberID{b}, got[1].MemberIDs)
}

func TestSummarizeReactionsEmpty(t *testing.T) {
	got := SummarizeReactions(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildThreadSummary(t *testing.T) {
	img := "https://img/u2.png"
	name := "u2"
	first := domain.New[domain.MemberID]()
	last := domain.New[domain.MemberID]()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	replies := []message.Message{
		{ID: domain.New[domain.MessageID](), MemberID: first, CreatedAt: at},
		{ID: domain.New[domain.MessageID](), MemberID: last, CreatedAt: at.Add(time.Minute)},
	}

	assert.Equal(t, ThreadSummary{}, BuildThreadSummary(nil, nil))

	got := BuildThreadSummary(replies, func(id domain.MemberID) (user.User, bool) {
		require.Equal(t, last, id)
		return user.User{Name: &name, Image: &img}, true
	})
	assert.Equal(t, ThreadSummary{Count: 2, Name: "u2", Image: &img, Timestamp: at.Add(time.Minute).UnixMilli()}, got)

	got = BuildThreadSummary(replies, func(domain.MemberID) (user.User, bool) { return user.User{}, false })
	assert.Equal(t, ThreadSummary{Count: 2}, got)
}

type stubResolver struct {
	url string
	err error
}

func (s stubResolver) ResolveURL(context.Context, string) (string, error) { return s.url, s.err }

func TestHydrateResolvesImage(t *testing.T) {
	f := newFixture(t)
	u1 := f.user(t, "u1")
	ws, general := f.workspace(t, u1, "Acme")
	key := "uploads/abc"
	id, err := f.messages.Create(f.ctx, u1, CreateMessageInput{Body: "pic", Image: &key, WorkspaceID: ws, ChannelID: &general})
	require.NoError(t, err)
	m, err := f.store.Messages().GetByID(f.ctx, id)
	require.NoError(t, err)

	h := NewHydrator(f.store, stubResolver{url: "https://cdn/uploads/abc"}, logger.NewNop())
	got, ok, err := h.Hydrate(f.ctx, m, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "https://cdn/uploads/abc", *got.ImageURL)

	// a storage failure blanks the image but keeps the message
	h = NewHydrator(f.store, stubResolver{err: errors.New("s3 down")}, logger.NewNop())
	got, ok, err = h.Hydrate(f.ctx, m, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.ImageURL)
	assert.NotNil(t, got.Thread)
}
