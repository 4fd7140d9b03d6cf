// Package memory is a process-local Store. It backs STORE_DRIVER=memory and
// the service tests.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"teamchat/internal/domain"
	"teamchat/internal/domain/channel"
	"teamchat/internal/domain/conversation"
	"teamchat/internal/domain/member"
	"teamchat/internal/domain/message"
	"teamchat/internal/domain/user"
	"teamchat/internal/domain/workspace"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
)

type tables struct {
	mu            sync.RWMutex
	users         map[domain.UserID]user.User
	workspaces    map[domain.WorkspaceID]workspace.Workspace
	members       map[domain.MemberID]member.Member
	channels      map[domain.ChannelID]channel.Channel
	conversations map[domain.ConversationID]conversation.Conversation
	messages      map[domain.MessageID]message.Message
	reactions     map[domain.ReactionID]message.Reaction
}

func newTables() *tables {
	return &tables{
		users:         make(map[domain.UserID]user.User),
		workspaces:    make(map[domain.WorkspaceID]workspace.Workspace),
		members:       make(map[domain.MemberID]member.Member),
		channels:      make(map[domain.ChannelID]channel.Channel),
		conversations: make(map[domain.ConversationID]conversation.Conversation),
		messages:      make(map[domain.MessageID]message.Message),
		reactions:     make(map[domain.ReactionID]message.Reaction),
	}
}

// snapshot copies every table. Callers hold t.mu.
func (t *tables) snapshot() *tables {
	return &tables{
		users:         maps.Clone(t.users),
		workspaces:    maps.Clone(t.workspaces),
		members:       maps.Clone(t.members),
		channels:      maps.Clone(t.channels),
		conversations: maps.Clone(t.conversations),
		messages:      maps.Clone(t.messages),
		reactions:     maps.Clone(t.reactions),
	}
}

func (t *tables) restore(from *tables) {
	t.users = from.users
	t.workspaces = from.workspaces
	t.members = from.members
	t.channels = from.channels
	t.conversations = from.conversations
	t.messages = from.messages
	t.reactions = from.reactions
}

type Store struct {
	t    *tables
	txMu *sync.Mutex
	inTx bool
}

func New() *Store {
	return &Store{t: newTables(), txMu: &sync.Mutex{}}
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s.t} }
func (s *Store) Workspaces() repository.WorkspaceRepository       { return workspaceRepo{s.t} }
func (s *Store) Members() repository.MemberRepository             { return memberRepo{s.t} }
func (s *Store) Channels() repository.ChannelRepository           { return channelRepo{s.t} }
func (s *Store) Conversations() repository.ConversationRepository { return conversationRepo{s.t} }
func (s *Store) Messages() repository.MessageRepository           { return messageRepo{s.t} }
func (s *Store) Reactions() repository.ReactionRepository         { return reactionRepo{s.t} }

// WithTx serializes transactions and rolls every table back when fn fails.
// Nested calls run inline in the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.t.mu.RLock()
	saved := s.t.snapshot()
	s.t.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(&Store{t: s.t, txMu: s.txMu, inTx: true}); err != nil {
		s.t.mu.Lock()
		s.t.restore(saved)
		s.t.mu.Unlock()
		return err
	}
	return nil
}

// Truncate drops every row.
func (s *Store) Truncate() {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	s.t.restore(newTables())
}

// Counts reports the number of rows per table, keyed like the SQL tables.
func (s *Store) Counts() map[string]int64 {
	s.t.mu.RLock()
	defer s.t.mu.RUnlock()
	return map[string]int64{
		"users":         int64(len(s.t.users)),
		"workspaces":    int64(len(s.t.workspaces)),
		"members":       int64(len(s.t.members)),
		"channels":      int64(len(s.t.channels)),
		"conversations": int64(len(s.t.conversations)),
		"messages":      int64(len(s.t.messages)),
		"reactions":     int64(len(s.t.reactions)),
	}
}

// collect returns the values matching keep, oldest first.
func collect[K comparable, V any](m map[K]V, keep func(V) bool, created func(V) (int64, string)) []V {
	out := make([]V, 0)
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, idi := created(out[i])
		tj, idj := created(out[j])
		if ti == tj {
			return idi < idj
		}
		return ti < tj
	})
	return out
}

func notFound[V any]() (V, error) {
	var zero V
	return zero, teamchat_errors.ErrNotFound
}
