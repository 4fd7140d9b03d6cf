package events

import (
	"fmt"
	"strings"
)

const workspaceChannelPrefix = "channel:workspace:"

// WorkspaceChannelPattern matches every workspace feed for PSUBSCRIBE.
const WorkspaceChannelPattern = workspaceChannelPrefix + "*"

// ResolveChannels returns the Redis channels an envelope is published to.
// Every event is scoped to exactly one workspace feed.
func ResolveChannels(env Envelope) []string {
	if env.WorkspaceID == "" {
		return nil
	}
	return []string{WorkspaceChannel(env.WorkspaceID)}
}

func WorkspaceChannel(workspaceID string) string {
	return fmt.Sprintf("%s%s", workspaceChannelPrefix, workspaceID)
}

// WorkspaceFromChannel extracts the workspace id from a feed channel name.
func WorkspaceFromChannel(channel string) (string, bool) {
	id, ok := strings.CutPrefix(channel, workspaceChannelPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
