package httpdto

import (
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/domain/channel"
)

type CreateChannelRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateChannelRequest struct {
	Name string `json:"name" binding:"required"`
}

type Channel struct {
	ID          domain.ChannelID   `json:"id"`
	Name        string             `json:"name"`
	WorkspaceID domain.WorkspaceID `json:"workspace_id"`
	CreatedAt   time.Time          `json:"created_at"`
}

func NewChannel(ch channel.Channel) Channel {
	return Channel{ID: ch.ID, Name: ch.Name, WorkspaceID: ch.WorkspaceID, CreatedAt: ch.CreatedAt}
}
