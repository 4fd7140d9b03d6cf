package repository

import (
	"context"

	"teamchat/internal/domain"
	"teamchat/internal/domain/channel"
	"teamchat/internal/domain/conversation"
	"teamchat/internal/domain/member"
	"teamchat/internal/domain/message"
	"teamchat/internal/domain/user"
	"teamchat/internal/domain/workspace"
)

// Lookups by id return teamchat_errors.ErrNotFound when the row is missing.
// Deletes of a missing row also return ErrNotFound.

type UserRepository interface {
	GetUserByID(ctx context.Context, id domain.UserID) (user.User, error)
	Upsert(ctx context.Context, u *user.User) error
}

type WorkspaceRepository interface {
	Create(ctx context.Context, w *workspace.Workspace) error
	GetByID(ctx context.Context, id domain.WorkspaceID) (workspace.Workspace, error)
	UpdateName(ctx context.Context, id domain.WorkspaceID, name string) error
	UpdateJoinCode(ctx context.Context, id domain.WorkspaceID, code string) error
	Delete(ctx context.Context, id domain.WorkspaceID) error
}

type MemberRepository interface {
	Create(ctx context.Context, m *member.Member) error
	GetByID(ctx context.Context, id domain.MemberID) (member.Member, error)
	GetByWorkspaceAndUser(ctx context.Context, workspaceID domain.WorkspaceID, userID domain.UserID) (member.Member, error)
	ListByWorkspace(ctx context.Context, workspaceID domain.WorkspaceID) ([]member.Member, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]member.Member, error)
	UpdateRole(ctx context.Context, id domain.MemberID, role member.Role) error
	Delete(ctx context.Context, id domain.MemberID) error
}

type ChannelRepository interface {
	Create(ctx context.Context, c *channel.Channel) error
	GetByID(ctx context.Context, id domain.ChannelID) (channel.Channel, error)
	ListByWorkspace(ctx context.Context, workspaceID domain.WorkspaceID) ([]channel.Channel, error)
	UpdateName(ctx context.Context, id domain.ChannelID, name string) error
	Delete(ctx context.Context, id domain.ChannelID) error
}

type ConversationRepository interface {
	Create(ctx context.Context, c *conversation.Conversation) error
	GetByID(ctx context.Context, id domain.ConversationID) (conversation.Conversation, error)
	// FindByMembers matches the pair in the stored order only.
	FindByMembers(ctx context.Context, workspaceID domain.WorkspaceID, memberOne, memberTwo domain.MemberID) (conversation.Conversation, error)
	// DeleteByMember removes every conversation the member takes part in.
	DeleteByMember(ctx context.Context, memberID domain.MemberID) error
	Delete(ctx context.Context, id domain.ConversationID) error
}

// MessageFilter selects one container. Each field is compared with null-aware
// equality: a nil field matches only messages where that field is absent.
type MessageFilter struct {
	ChannelID       *domain.ChannelID
	ConversationID  *domain.ConversationID
	ParentMessageID *domain.MessageID
}

func (f MessageFilter) Matches(m message.Message) bool {
	return domain.SameID(f.ChannelID, m.ChannelID) &&
		domain.SameID(f.ConversationID, m.ConversationID) &&
		domain.SameID(f.ParentMessageID, m.ParentMessageID)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id domain.MessageID) (message.Message, error)
	UpdateBody(ctx context.Context, m message.Message) error
	Delete(ctx context.Context, id domain.MessageID) error

	// ListPage returns the container newest first.
	ListPage(ctx context.Context, filter MessageFilter, page PageRequest) (Page[message.Message], error)
	// ListReplies returns the thread under parentID oldest first.
	ListReplies(ctx context.Context, parentID domain.MessageID) ([]message.Message, error)
	DeleteByMember(ctx context.Context, memberID domain.MemberID) error
	ListByChannel(ctx context.Context, channelID domain.ChannelID) ([]message.Message, error)
}

type ReactionRepository interface {
	Create(ctx context.Context, r *message.Reaction) error
	Find(ctx context.Context, messageID domain.MessageID, memberID domain.MemberID, value string) (message.Reaction, error)
	// ListByMessage returns reactions oldest first.
	ListByMessage(ctx context.Context, messageID domain.MessageID) ([]message.Reaction, error)
	DeleteByMember(ctx context.Context, memberID domain.MemberID) error
	Delete(ctx context.Context, id domain.ReactionID) error
	DeleteByMessage(ctx context.Context, messageID domain.MessageID) error
}

// Store groups the repositories of one backing database. WithTx runs fn
// against a Store whose writes commit together or not at all.
type Store interface {
	Users() UserRepository
	Workspaces() WorkspaceRepository
	Members() MemberRepository
	Channels() ChannelRepository
	Conversations() ConversationRepository
	Messages() MessageRepository
	Reactions() ReactionRepository

	WithTx(ctx context.Context, fn func(tx Store) error) error
}
