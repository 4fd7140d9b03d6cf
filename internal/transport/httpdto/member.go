package httpdto

import (
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/domain/member"
)

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type Member struct {
	ID          domain.MemberID    `json:"id"`
	UserID      domain.UserID      `json:"user_id"`
	WorkspaceID domain.WorkspaceID `json:"workspace_id"`
	Role        member.Role        `json:"role"`
	CreatedAt   time.Time          `json:"created_at"`
}

type MemberWithUser struct {
	Member
	User User `json:"user"`
}

func NewMember(m member.Member) Member {
	return Member{ID: m.ID, UserID: m.UserID, WorkspaceID: m.WorkspaceID, Role: m.Role, CreatedAt: m.CreatedAt}
}

func NewMemberWithUser(m member.WithUser) MemberWithUser {
	return MemberWithUser{Member: NewMember(m.Member), User: NewUser(m.User)}
}
