package member

import (
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/domain/user"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Member represents the members table: one user's membership in one workspace.
type Member struct {
	ID          domain.MemberID
	UserID      domain.UserID
	WorkspaceID domain.WorkspaceID
	Role        Role
	CreatedAt   time.Time
}

func (m Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// WithUser pairs a member with the user profile it points at.
type WithUser struct {
	Member
	User user.User
}
