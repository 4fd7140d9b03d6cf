package workspace

import (
	"math/rand/v2"
	"strings"
	"time"

	"teamchat/internal/domain"
)

const (
	JoinCodeLength   = 6
	joinCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// DefaultChannelName is created alongside every new workspace.
	DefaultChannelName = "general"
)

// Workspace represents the workspaces table
type Workspace struct {
	ID        domain.WorkspaceID
	Name      string
	UserID    domain.UserID
	JoinCode  string
	CreatedAt time.Time
}

// GenerateJoinCode draws a fresh code. Codes are not unique across workspaces;
// joining always names the workspace explicitly.
func GenerateJoinCode() string {
	var b strings.Builder
	b.Grow(JoinCodeLength)
	for i := 0; i < JoinCodeLength; i++ {
		b.WriteByte(joinCodeAlphabet[rand.IntN(len(joinCodeAlphabet))])
	}
	return b.String()
}
