package conversation

import (
	"time"

	"teamchat/internal/domain"
)

// Conversation represents the conversations table: a direct thread between
// two members of the same workspace.
type Conversation struct {
	ID          domain.ConversationID
	WorkspaceID domain.WorkspaceID
	MemberOneID domain.MemberID
	MemberTwoID domain.MemberID
	CreatedAt   time.Time
}

// Involves reports whether the member is one of the two participants.
func (c Conversation) Involves(id domain.MemberID) bool {
	return c.MemberOneID == id || c.MemberTwoID == id
}
