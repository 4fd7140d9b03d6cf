package websocket

import (
	"context"

	"teamchat/internal/domain"
	"teamchat/internal/events"
)

// MembershipChecker answers whether a user belongs to a workspace.
// proxy.AccessControl satisfies it.
type MembershipChecker interface {
	CanSubscribe(ctx context.Context, userID domain.UserID, workspaceID domain.WorkspaceID) (bool, error)
}

// ChannelAuthorizer admits a user to a workspace feed only while they are a
// member of that workspace.
type ChannelAuthorizer struct {
	members MembershipChecker
}

func NewChannelAuthorizer(members MembershipChecker) *ChannelAuthorizer {
	return &ChannelAuthorizer{members: members}
}

func (a *ChannelAuthorizer) CanSubscribe(ctx context.Context, userID domain.UserID, channel string) (bool, error) {
	if userID.IsZero() {
		return false, nil
	}
	raw, ok := events.WorkspaceFromChannel(channel)
	if !ok {
		return false, nil
	}
	workspaceID, err := domain.Parse[domain.WorkspaceID](raw)
	if err != nil {
		return false, nil
	}
	return a.members.CanSubscribe(ctx, userID, workspaceID)
}
