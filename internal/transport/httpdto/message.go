package httpdto

import (
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/repository"
	"teamchat/internal/services"
)

type CreateMessageRequest struct {
	Body            string  `json:"body" binding:"required"`
	Image           *string `json:"image"`
	WorkspaceID     string  `json:"workspace_id" binding:"required"`
	ChannelID       string  `json:"channel_id"`
	ConversationID  string  `json:"conversation_id"`
	ParentMessageID string  `json:"parent_message_id"`
}

type UpdateMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type ToggleReactionRequest struct {
	Value string `json:"value" binding:"required"`
}

type Reaction struct {
	Value     string            `json:"value"`
	Count     int               `json:"count"`
	MemberIDs []domain.MemberID `json:"member_ids"`
}

type Message struct {
	ID              domain.MessageID       `json:"id"`
	Body            string                 `json:"body"`
	Image           *string                `json:"image"`
	MemberID        domain.MemberID        `json:"member_id"`
	WorkspaceID     domain.WorkspaceID     `json:"workspace_id"`
	ChannelID       *domain.ChannelID      `json:"channel_id"`
	ConversationID  *domain.ConversationID `json:"conversation_id"`
	ParentMessageID *domain.MessageID      `json:"parent_message_id"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       *time.Time             `json:"updated_at"`
	Member          Member                 `json:"member"`
	User            User                   `json:"user"`
	Reactions       []Reaction             `json:"reactions"`
	ThreadCount     *int                   `json:"thread_count,omitempty"`
	ThreadImage     *string                `json:"thread_image,omitempty"`
	ThreadName      *string                `json:"thread_name,omitempty"`
	ThreadTimestamp *int64                 `json:"thread_timestamp,omitempty"`
}

type MessagePage struct {
	Page           []Message `json:"page"`
	IsDone         bool      `json:"is_done"`
	ContinueCursor string    `json:"continue_cursor"`
}

// NewMessage flattens a hydrated message. Image carries the resolved URL,
// not the storage key.
func NewMessage(h services.HydratedMessage) Message {
	out := Message{
		ID:              h.ID,
		Body:            h.Body,
		Image:           h.ImageURL,
		MemberID:        h.MemberID,
		WorkspaceID:     h.WorkspaceID,
		ChannelID:       h.ChannelID,
		ConversationID:  h.ConversationID,
		ParentMessageID: h.ParentMessageID,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
		Member:          NewMember(h.Member),
		User:            NewUser(h.User),
		Reactions:       make([]Reaction, 0, len(h.Reactions)),
	}
	for _, r := range h.Reactions {
		out.Reactions = append(out.Reactions, Reaction{Value: r.Value, Count: r.Count, MemberIDs: r.MemberIDs})
	}
	if t := h.Thread; t != nil {
		out.ThreadCount = &t.Count
		out.ThreadImage = t.Image
		out.ThreadName = &t.Name
		out.ThreadTimestamp = &t.Timestamp
	}
	return out
}

func NewMessagePage(p repository.Page[services.HydratedMessage]) MessagePage {
	out := MessagePage{Page: make([]Message, 0, len(p.Page)), IsDone: p.IsDone, ContinueCursor: p.ContinueCursor}
	for _, h := range p.Page {
		out.Page = append(out.Page, NewMessage(h))
	}
	return out
}
