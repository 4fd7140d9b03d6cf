package httpdto

import (
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/domain/workspace"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type JoinWorkspaceRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

type Workspace struct {
	ID        domain.WorkspaceID `json:"id"`
	Name      string             `json:"name"`
	UserID    domain.UserID      `json:"user_id"`
	JoinCode  string             `json:"join_code"`
	CreatedAt time.Time          `json:"created_at"`
}

type WorkspaceInfo struct {
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
}

type IDResponse struct {
	ID string `json:"id"`
}

func NewWorkspace(ws workspace.Workspace) Workspace {
	return Workspace{
		ID:        ws.ID,
		Name:      ws.Name,
		UserID:    ws.UserID,
		JoinCode:  ws.JoinCode,
		CreatedAt: ws.CreatedAt,
	}
}
