package message

import (
	"time"

	"teamchat/internal/domain"
)

// Message represents the messages table. A message lives in exactly one
// container: a channel, a conversation, or the thread under ParentMessageID.
type Message struct {
	ID              domain.MessageID
	Body            string
	Image           *string
	MemberID        domain.MemberID
	WorkspaceID     domain.WorkspaceID
	ChannelID       *domain.ChannelID
	ConversationID  *domain.ConversationID
	ParentMessageID *domain.MessageID
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Reaction represents the reactions table
type Reaction struct {
	ID          domain.ReactionID
	WorkspaceID domain.WorkspaceID
	MessageID   domain.MessageID
	MemberID    domain.MemberID
	Value       string
	CreatedAt   time.Time
}
