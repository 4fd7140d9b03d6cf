package memory

import (
	"context"
	"sort"

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

type userRepo struct{ t *tables }

func (r userRepo) GetUserByID(_ context.Context, id domain.UserID) (user.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if u, ok := r.t.users[id]; ok {
		return u, nil
	}
	return notFound[user.User]()
}

func (r userRepo) Upsert(_ context.Context, u *user.User) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if existing, ok := r.t.users[u.ID]; ok {
		u.CreatedAt = existing.CreatedAt
	}
	r.t.users[u.ID] = *u
	return nil
}

type workspaceRepo struct{ t *tables }

func (r workspaceRepo) Create(_ context.Context, w *workspace.Workspace) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if _, ok := r.t.workspaces[w.ID]; ok {
		return teamchat_errors.ErrAlreadyExists
	}
	r.t.workspaces[w.ID] = *w
	return nil
}

func (r workspaceRepo) GetByID(_ context.Context, id domain.WorkspaceID) (workspace.Workspace, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if w, ok := r.t.workspaces[id]; ok {
		return w, nil
	}
	return notFound[workspace.Workspace]()
}

func (r workspaceRepo) update(id domain.WorkspaceID, fn func(*workspace.Workspace)) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	w, ok := r.t.workspaces[id]
	if !ok {
		return teamchat_errors.ErrNotFound
	}
	fn(&w)
	r.t.workspaces[id] = w
	return nil
}

func (r workspaceRepo) UpdateName(_ context.Context, id domain.WorkspaceID, name string) error {
	return r.update(id, func(w *workspace.Workspace) { w.Name = name })
}

func (r workspaceRepo) UpdateJoinCode(_ context.Context, id domain.WorkspaceID, code string) error {
	return r.update(id, func(w *workspace.Workspace) { w.JoinCode = code })
}

func (r workspaceRepo) Delete(_ context.Context, id domain.WorkspaceID) error {
	return deleteKey(r.t, func(t *tables) map[domain.WorkspaceID]workspace.Workspace { return t.workspaces }, id)
}

type memberRepo struct{ t *tables }

func memberOrder(m member.Member) (int64, string) { return m.CreatedAt.UnixMicro(), m.ID.String() }

func (r memberRepo) Create(_ context.Context, m *member.Member) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for _, existing := range r.t.members {
		if existing.WorkspaceID == m.WorkspaceID && existing.UserID == m.UserID {
			return teamchat_errors.ErrAlreadyExists
		}
	}
	r.t.members[m.ID] = *m
	return nil
}

func (r memberRepo) GetByID(_ context.Context, id domain.MemberID) (member.Member, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if m, ok := r.t.members[id]; ok {
		return m, nil
	}
	return notFound[member.Member]()
}

func (r memberRepo) GetByWorkspaceAndUser(_ context.Context, workspaceID domain.WorkspaceID, userID domain.UserID) (member.Member, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for _, m := range r.t.members {
		if m.WorkspaceID == workspaceID && m.UserID == userID {
			return m, nil
		}
	}
	return notFound[member.Member]()
}

func (r memberRepo) ListByWorkspace(_ context.Context, workspaceID domain.WorkspaceID) ([]member.Member, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return collect(r.t.members, func(m member.Member) bool { return m.WorkspaceID == workspaceID }, memberOrder), nil
}

func (r memberRepo) ListByUser(_ context.Context, userID domain.UserID) ([]member.Member, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return collect(r.t.members, func(m member.Member) bool { return m.UserID == userID }, memberOrder), nil
}

func (r memberRepo) UpdateRole(_ context.Context, id domain.MemberID, role member.Role) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	m, ok := r.t.members[id]
	if !ok {
		return teamchat_errors.ErrNotFound
	}
	m.Role = role
	r.t.members[id] = m
	return nil
}

func (r memberRepo) Delete(_ context.Context, id domain.MemberID) error {
	return deleteKey(r.t, func(t *tables) map[domain.MemberID]member.Member { return t.members }, id)
}

type channelRepo struct{ t *tables }

func (r channelRepo) Create(_ context.Context, c *channel.Channel) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.channels[c.ID] = *c
	return nil
}

func (r channelRepo) GetByID(_ context.Context, id domain.ChannelID) (channel.Channel, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if c, ok := r.t.channels[id]; ok {
		return c, nil
	}
	return notFound[channel.Channel]()
}

func (r channelRepo) ListByWorkspace(_ context.Context, workspaceID domain.WorkspaceID) ([]channel.Channel, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return collect(r.t.channels,
		func(c channel.Channel) bool { return c.WorkspaceID == workspaceID },
		func(c channel.Channel) (int64, string) { return c.CreatedAt.UnixMicro(), c.ID.String() }), nil
}

func (r channelRepo) UpdateName(_ context.Context, id domain.ChannelID, name string) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	c, ok := r.t.channels[id]
	if !ok {
		return teamchat_errors.ErrNotFound
	}
	c.Name = name
	r.t.channels[id] = c
	return nil
}

func (r channelRepo) Delete(_ context.Context, id domain.ChannelID) error {
	return deleteKey(r.t, func(t *tables) map[domain.ChannelID]channel.Channel { return t.channels }, id)
}

type conversationRepo struct{ t *tables }

func conversationOrder(c conversation.Conversation) (int64, string) {
	return c.CreatedAt.UnixMicro(), c.ID.String()
}

func (r conversationRepo) Create(_ context.Context, c *conversation.Conversation) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.conversations[c.ID] = *c
	return nil
}

func (r conversationRepo) GetByID(_ context.Context, id domain.ConversationID) (conversation.Conversation, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if c, ok := r.t.conversations[id]; ok {
		return c, nil
	}
	return notFound[conversation.Conversation]()
}

func (r conversationRepo) FindByMembers(_ context.Context, workspaceID domain.WorkspaceID, memberOne, memberTwo domain.MemberID) (conversation.Conversation, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	found := collect(r.t.conversations, func(c conversation.Conversation) bool {
		return c.WorkspaceID == workspaceID && c.MemberOneID == memberOne && c.MemberTwoID == memberTwo
	}, conversationOrder)
	if len(found) == 0 {
		return notFound[conversation.Conversation]()
	}
	return found[0], nil
}

func (r conversationRepo) DeleteByMember(_ context.Context, memberID domain.MemberID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for id, c := range r.t.conversations {
		if c.Involves(memberID) {
			delete(r.t.conversations, id)
		}
	}
	return nil
}

func (r conversationRepo) Delete(_ context.Context, id domain.ConversationID) error {
	return deleteKey(r.t, func(t *tables) map[domain.ConversationID]conversation.Conversation { return t.conversations }, id)
}

type messageRepo struct{ t *tables }

func messageOrder(m message.Message) (int64, string) { return m.CreatedAt.UnixMicro(), m.ID.String() }

func (r messageRepo) Create(_ context.Context, m *message.Message) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.messages[m.ID] = *m
	return nil
}

func (r messageRepo) GetByID(_ context.Context, id domain.MessageID) (message.Message, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if m, ok := r.t.messages[id]; ok {
		return m, nil
	}
	return notFound[message.Message]()
}

func (r messageRepo) UpdateBody(_ context.Context, m message.Message) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	existing, ok := r.t.messages[m.ID]
	if !ok {
		return teamchat_errors.ErrNotFound
	}
	existing.Body = m.Body
	existing.UpdatedAt = m.UpdatedAt
	r.t.messages[m.ID] = existing
	return nil
}

func (r messageRepo) Delete(_ context.Context, id domain.MessageID) error {
	return deleteKey(r.t, func(t *tables) map[domain.MessageID]message.Message { return t.messages }, id)
}

func (r messageRepo) ListPage(_ context.Context, filter repository.MessageFilter, page repository.PageRequest) (repository.Page[message.Message], error) {
	cursor, err := repository.DecodeCursor(page.Cursor)
	if err != nil {
		return repository.Page[message.Message]{}, err
	}
	limit := page.Limit()

	r.t.mu.RLock()
	matched := make([]message.Message, 0)
	for _, m := range r.t.messages {
		if !filter.Matches(m) {
			continue
		}
		if cursor != nil && !cursor.Precedes(m.CreatedAt, m.ID.UUID) {
			continue
		}
		matched = append(matched, m)
	}
	r.t.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return repository.NewestFirst(matched[i].CreatedAt, matched[i].ID.UUID, matched[j].CreatedAt, matched[j].ID.UUID)
	})
	if len(matched) > limit+1 {
		matched = matched[:limit+1]
	}
	return repository.BuildPage(matched, limit, page.Cursor, repository.MessageCursor), nil
}

func (r messageRepo) ListReplies(_ context.Context, parentID domain.MessageID) ([]message.Message, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return collect(r.t.messages, func(m message.Message) bool {
		return m.ParentMessageID != nil && *m.ParentMessageID == parentID
	}, messageOrder), nil
}

func (r messageRepo) DeleteByMember(_ context.Context, memberID domain.MemberID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for id, m := range r.t.messages {
		if m.MemberID == memberID {
			delete(r.t.messages, id)
		}
	}
	return nil
}

func (r messageRepo) ListByChannel(_ context.Context, channelID domain.ChannelID) ([]message.Message, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return collect(r.t.messages, func(m message.Message) bool {
		return m.ChannelID != nil && *m.ChannelID == channelID
	}, messageOrder), nil
}

type reactionRepo struct{ t *tables }

func reactionOrder(r message.Reaction) (int64, string) { return r.CreatedAt.UnixMicro(), r.ID.String() }

func (r reactionRepo) Create(_ context.Context, rx *message.Reaction) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for _, existing := range r.t.reactions {
		if existing.MessageID == rx.MessageID && existing.MemberID == rx.MemberID && existing.Value == rx.Value {
			return teamchat_errors.ErrAlreadyExists
		}
	}
	r.t.reactions[rx.ID] = *rx
	return nil
}

func (r reactionRepo) Find(_ context.Context, messageID domain.MessageID, memberID domain.MemberID, value string) (message.Reaction, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for _, rx := range r.t.reactions {
		if rx.MessageID == messageID && rx.MemberID == memberID && rx.Value == value {
			return rx, nil
		}
	}
	return notFound[message.Reaction]()
}

func (r reactionRepo) ListByMessage(_ context.Context, messageID domain.MessageID) ([]message.Reaction, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return collect(r.t.reactions, func(rx message.Reaction) bool { return rx.MessageID == messageID }, reactionOrder), nil
}

func (r reactionRepo) DeleteByMember(_ context.Context, memberID domain.MemberID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for id, rx := range r.t.reactions {
		if rx.MemberID == memberID {
			delete(r.t.reactions, id)
		}
	}
	return nil
}

func (r reactionRepo) Delete(_ context.Context, id domain.ReactionID) error {
	return deleteKey(r.t, func(t *tables) map[domain.ReactionID]message.Reaction { return t.reactions }, id)
}

func (r reactionRepo) DeleteByMessage(_ context.Context, messageID domain.MessageID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for id, rx := range r.t.reactions {
		if rx.MessageID == messageID {
			delete(r.t.reactions, id)
		}
	}
	return nil
}

func deleteKey[K comparable, V any](t *tables, table func(*tables) map[K]V, id K) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := table(t)
	if _, ok := m[id]; !ok {
		return teamchat_errors.ErrNotFound
	}
	delete(m, id)
	return nil
}
