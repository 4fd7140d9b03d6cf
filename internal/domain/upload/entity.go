package upload

import (
	"strings"
	"time"
)

const (
	KeyPrefix    = "uploads/"
	MaxSizeBytes = 10 << 20
)

// Ticket is a short-lived grant to PUT one object into file storage.
// The client uploads to UploadURL and then stores StorageKey as a message image.
type Ticket struct {
	StorageKey string
	UploadURL  string
	Method     string
	Headers    map[string]string
	ExpiresAt  time.Time
}

// IsImageType reports whether the content type is accepted for message images.
func IsImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
