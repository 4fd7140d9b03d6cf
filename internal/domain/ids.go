package domain

import (
	"fmt"

	teamchat_errors "teamchat/pkg/errors"

	"github.com/google/uuid"
)

// ID is a UUID tagged with the table it belongs to. Two IDs of different
// kinds never compare equal at compile time, so a MemberID cannot be passed
// where a UserID is expected.
type ID[K any] struct {
	uuid.UUID
}

type (
	workspaceKind    struct{}
	memberKind       struct{}
	channelKind      struct{}
	conversationKind struct{}
	messageKind      struct{}
	reactionKind     struct{}
	userKind         struct{}
)

type (
	WorkspaceID    = ID[workspaceKind]
	MemberID       = ID[memberKind]
	ChannelID      = ID[channelKind]
	ConversationID = ID[conversationKind]
	MessageID      = ID[messageKind]
	ReactionID     = ID[reactionKind]
	UserID         = ID[userKind]
)

func NewID[K any]() ID[K] {
	return ID[K]{UUID: uuid.New()}
}

// New mints a random id of any typed kind, e.g. New[MessageID]().
func New[T ~struct{ uuid.UUID }]() T {
	return T{UUID: uuid.New()}
}

func (id ID[K]) IsZero() bool {
	return id.UUID == uuid.Nil
}

func (id ID[K]) Ptr() *ID[K] {
	return &id
}

// Parse reads a textual UUID into any of the typed identifiers.
func Parse[T ~struct{ uuid.UUID }](s string) (T, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return T{}, fmt.Errorf("%w: parse id %q: %v", teamchat_errors.ErrInvalidInput, s, err)
	}
	return T{UUID: u}, nil
}

// ParseOptional is Parse for optional fields: an empty string yields nil.
func ParseOptional[T ~struct{ uuid.UUID }](s string) (*T, error) {
	if s == "" {
		return nil, nil
	}
	id, err := Parse[T](s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NullUUID converts an optional typed id into its SQL form.
func NullUUID[T ~struct{ uuid.UUID }](id *T) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: struct{ uuid.UUID }(*id).UUID, Valid: true}
}

// FromNullUUID is the inverse of NullUUID.
func FromNullUUID[T ~struct{ uuid.UUID }](n uuid.NullUUID) *T {
	if !n.Valid {
		return nil
	}
	id := T{UUID: n.UUID}
	return &id
}

// SameID reports whether two optional ids are both absent or both equal.
func SameID[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
