package channel

import (
	"regexp"
	"strings"
	"time"

	"teamchat/internal/domain"
)

// Channel represents the channels table
type Channel struct {
	ID          domain.ChannelID
	Name        string
	WorkspaceID domain.WorkspaceID
	CreatedAt   time.Time
}

// ASCII whitespace, \v, the Unicode space separators and the BOM.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// NormalizeName replaces each whitespace run with a single hyphen and lowercases.
func NormalizeName(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(name, "-"))
}
