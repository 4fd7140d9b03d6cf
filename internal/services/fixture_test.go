package services

import (
	"context"
	"sync"
	"testing"

	"teamchat/internal/domain"
	"teamchat/internal/domain/user"
	"teamchat/internal/events"
	"teamchat/internal/repository/memory"
	"teamchat/pkg/logger"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.Envelope
}

func (r *recordingNotifier) Notify(_ context.Context, env events.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, env)
	return nil
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	bus   *recordingNotifier

	workspaces    *WorkspaceService
	channels      *ChannelService
	members       *MemberService
	conversations *ConversationService
	messages      *MessageService
	reactions     *ReactionService
	users         *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	bus := &recordingNotifier{}
	l := logger.NewNop()
	ws := NewWorkspaceService(store, bus, l)
	ws.joinCode = func() string { return "abc123" }
	return &fixture{
		ctx:           context.Background(),
		store:         store,
		bus:           bus,
		workspaces:    ws,
		channels:      NewChannelService(store, bus, l),
		members:       NewMemberService(store, bus, l),
		conversations: NewConversationService(store, bus, l),
		messages:      NewMessageService(store, NewHydrator(store, nil, l), bus, l),
		reactions:     NewReactionService(store, bus, l),
		users:         NewUserService(store.Users()),
	}
}

func (f *fixture) user(t *testing.T, name string) domain.UserID {
	t.Helper()
	u := user.User{ID: domain.New[domain.UserID](), Name: &name, CreatedAt: domain.Now()}
	require.NoError(t, f.store.Users().Upsert(f.ctx, &u))
	return u.ID
}

// workspace creates a workspace owned by owner and returns it with its
// general channel.
func (f *fixture) workspace(t *testing.T, owner domain.UserID, name string) (domain.WorkspaceID, domain.ChannelID) {
	t.Helper()
	id, err := f.workspaces.Create(f.ctx, owner, name)
	require.NoError(t, err)
	chans, err := f.channels.List(f.ctx, owner, id)
	require.NoError(t, err)
	require.Len(t, chans, 1)
	return id, chans[0].ID
}

func (f *fixture) join(t *testing.T, u domain.UserID, ws domain.WorkspaceID) domain.MemberID {
	t.Helper()
	_, err := f.workspaces.Join(f.ctx, u, ws, "abc123")
	require.NoError(t, err)
	m, err := f.members.Current(f.ctx, u, ws)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.ID
}

func (f *fixture) post(t *testing.T, author domain.UserID, ws domain.WorkspaceID, ch *domain.ChannelID, conv *domain.ConversationID, parent *domain.MessageID, body string) domain.MessageID {
	t.Helper()
	id, err := f.messages.Create(f.ctx, author, CreateMessageInput{
		Body:            body,
		WorkspaceID:     ws,
		ChannelID:       ch,
		ConversationID:  conv,
		ParentMessageID: parent,
	})
	require.NoError(t, err)
	return id
}
