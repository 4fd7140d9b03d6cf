package memory

import (
	"context"
	"errors"
	"testing"

	"teamchat/internal/domain"
	"teamchat/internal/domain/member"
	"teamchat/internal/domain/message"
	"teamchat/internal/domain/workspace"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessage(ws domain.WorkspaceID, author domain.MemberID, ch *domain.ChannelID, parent *domain.MessageID) *message.Message {
	return &message.Message{
		ID:              domain.New[domain.MessageID](),
		Body:            "hello",
		MemberID:        author,
		WorkspaceID:     ws,
		ChannelID:       ch,
		ParentMessageID: parent,
		CreatedAt:       domain.Now(),
	}
}

func TestListPageWalksNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	ws := domain.New[domain.WorkspaceID]()
	author := domain.New[domain.MemberID]()
	ch := domain.New[domain.ChannelID]()

	var ids []domain.MessageID
	for i := 0; i < 7; i++ {
		m := newMessage(ws, author, &ch, nil)
		require.NoError(t, s.Messages().Create(ctx, m))
		ids = append(ids, m.ID)
	}
	// a reply and a message in another channel must not leak into the channel listing
	require.NoError(t, s.Messages().Create(ctx, newMessage(ws, author, &ch, &ids[0])))
	other := domain.New[domain.ChannelID]()
	require.NoError(t, s.Messages().Create(ctx, newMessage(ws, author, &other, nil)))

	filter := repository.MessageFilter{ChannelID: &ch}
	var seen []domain.MessageID
	cursor := ""
	for pages := 0; pages < 10; pages++ {
		page, err := s.Messages().ListPage(ctx, filter, repository.PageRequest{NumItems: 3, Cursor: cursor})
		require.NoError(t, err)
		for _, m := range page.Page {
			seen = append(seen, m.ID)
		}
		cursor = page.ContinueCursor
		if page.IsDone {
			break
		}
	}

	require.Len(t, seen, 7)
	for i := range seen {
		assert.Equal(t, ids[len(ids)-1-i], seen[i])
	}
}

func TestListPageRejectsBadCursor(t *testing.T) {
	_, err := New().Messages().ListPage(context.Background(), repository.MessageFilter{}, repository.PageRequest{Cursor: "%%%"})
	assert.ErrorIs(t, err, teamchat_errors.ErrInvalidInput)
}

func TestMemberUniquePerWorkspace(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := &member.Member{
		ID:          domain.New[domain.MemberID](),
		UserID:      domain.New[domain.UserID](),
		WorkspaceID: domain.New[domain.WorkspaceID](),
		Role:        member.RoleMember,
		CreatedAt:   domain.Now(),
	}
	require.NoError(t, s.Members().Create(ctx, m))
	dup := *m
	dup.ID = domain.New[domain.MemberID]()
	assert.ErrorIs(t, s.Members().Create(ctx, &dup), teamchat_errors.ErrAlreadyExists)
}

func TestReactionUniquePerTriple(t *testing.T) {
	ctx := context.Background()
	s := New()
	rx := &message.Reaction{
		ID:        domain.New[domain.ReactionID](),
		MessageID: domain.New[domain.MessageID](),
		MemberID:  domain.New[domain.MemberID](),
		Value:     "👍",
		CreatedAt: domain.Now(),
	}
	require.NoError(t, s.Reactions().Create(ctx, rx))
	dup := *rx
	dup.ID = domain.New[domain.ReactionID]()
	assert.ErrorIs(t, s.Reactions().Create(ctx, &dup), teamchat_errors.ErrAlreadyExists)

	dup.Value = "🎉"
	assert.NoError(t, s.Reactions().Create(ctx, &dup))
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	w := &workspace.Workspace{ID: domain.New[domain.WorkspaceID](), Name: "w", CreatedAt: domain.Now()}
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Workspaces().Create(ctx, w))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Workspaces().GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, teamchat_errors.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx repository.Store) error {
		return tx.WithTx(ctx, func(inner repository.Store) error {
			return inner.Workspaces().Create(ctx, w)
		})
	}))
	got, err := s.Workspaces().GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "w", got.Name)
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	err := New().Channels().Delete(context.Background(), domain.New[domain.ChannelID]())
	assert.ErrorIs(t, err, teamchat_errors.ErrNotFound)
}
