package proxy

import (
	"context"
	"errors"

	"teamchat/internal/domain"
	"teamchat/internal/domain/member"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
)

// AccessControl resolves a caller to their membership and enforces the
// workspace role rules shared by every service.
type AccessControl struct {
	members repository.MemberRepository
}

func NewAccessControl(members repository.MemberRepository) *AccessControl {
	return &AccessControl{members: members}
}

// CurrentMember returns the caller's membership in the workspace, or nil when
// the caller is anonymous or not a member.
func (a *AccessControl) CurrentMember(ctx context.Context, workspaceID domain.WorkspaceID, userID domain.UserID) (*member.Member, error) {
	if userID.IsZero() {
		return nil, nil
	}
	m, err := a.members.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, teamchat_errors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (a *AccessControl) RequireMember(ctx context.Context, workspaceID domain.WorkspaceID, userID domain.UserID) (member.Member, error) {
	if userID.IsZero() {
		return member.Member{}, teamchat_errors.ErrUnauthorized
	}
	m, err := a.CurrentMember(ctx, workspaceID, userID)
	if err != nil {
		return member.Member{}, err
	}
	if m == nil {
		return member.Member{}, teamchat_errors.ErrForbidden
	}
	return *m, nil
}

func (a *AccessControl) RequireAdmin(ctx context.Context, workspaceID domain.WorkspaceID, userID domain.UserID) (member.Member, error) {
	m, err := a.RequireMember(ctx, workspaceID, userID)
	if err != nil {
		return member.Member{}, err
	}
	if !m.IsAdmin() {
		return member.Member{}, teamchat_errors.ErrForbidden
	}
	return m, nil
}

// RequireAuthor checks that the caller's membership in the workspace is the
// one that wrote the content.
func (a *AccessControl) RequireAuthor(ctx context.Context, workspaceID domain.WorkspaceID, userID domain.UserID, authorID domain.MemberID) (member.Member, error) {
	m, err := a.RequireMember(ctx, workspaceID, userID)
	if err != nil {
		return member.Member{}, err
	}
	if m.ID != authorID {
		return member.Member{}, teamchat_errors.ErrForbidden
	}
	return m, nil
}

// CanSubscribe reports whether the user may receive the workspace's realtime feed.
func (a *AccessControl) CanSubscribe(ctx context.Context, userID domain.UserID, workspaceID domain.WorkspaceID) (bool, error) {
	m, err := a.CurrentMember(ctx, workspaceID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}
