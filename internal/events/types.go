package events

// Event types follow the format: aggregate.action

// Workspace events
const (
	EventTypeWorkspaceCreated       = "workspace.created"
	EventTypeWorkspaceUpdated       = "workspace.updated"
	EventTypeWorkspaceRemoved       = "workspace.removed"
	EventTypeWorkspaceJoinCodeReset = "workspace.join_code_reset"
)

// Member events
const (
	EventTypeMemberJoined      = "member.joined"
	EventTypeMemberRoleChanged = "member.role_changed"
	EventTypeMemberRemoved     = "member.removed"
)

// Channel events
const (
	EventTypeChannelCreated = "channel.created"
	EventTypeChannelUpdated = "channel.updated"
	EventTypeChannelRemoved = "channel.removed"
)

// Conversation events
const (
	EventTypeConversationCreated = "conversation.created"
)

// Message events
const (
	EventTypeMessageCreated = "message.created"
	EventTypeMessageUpdated = "message.updated"
	EventTypeMessageDeleted = "message.deleted"
)

// Reaction events
const (
	EventTypeReactionAdded   = "reaction.added"
	EventTypeReactionRemoved = "reaction.removed"
)

// Aggregate types
const (
	AggregateWorkspace    = "workspace"
	AggregateMember       = "member"
	AggregateChannel      = "channel"
	AggregateConversation = "conversation"
	AggregateMessage      = "message"
	AggregateReaction     = "reaction"
)
