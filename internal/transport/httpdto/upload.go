package httpdto

import (
	"time"

	"teamchat/internal/domain/upload"
)

type CreateUploadRequest struct {
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

type UploadTicket struct {
	StorageKey string            `json:"storage_key"`
	UploadURL  string            `json:"upload_url"`
	Method     string            `json:"method"`
	Headers    map[string]string `json:"headers,omitempty"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

func NewUploadTicket(t upload.Ticket) UploadTicket {
	return UploadTicket{
		StorageKey: t.StorageKey,
		UploadURL:  t.UploadURL,
		Method:     t.Method,
		Headers:    t.Headers,
		ExpiresAt:  t.ExpiresAt,
	}
}
