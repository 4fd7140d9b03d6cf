package services

import (
	"context"
	"strings"
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/domain/upload"
	teamchat_errors "teamchat/pkg/errors"

	"github.com/google/uuid"
)

// UploadSigner grants direct uploads into file storage.
type UploadSigner interface {
	PresignPut(ctx context.Context, key, contentType string, sizeBytes int64) (string, map[string]string, error)
	URLTTL() time.Duration
}

type UploadService struct {
	signer UploadSigner
}

// NewUploadService accepts a nil signer; uploads then report storage as
// unconfigured.
func NewUploadService(signer UploadSigner) *UploadService {
	return &UploadService{signer: signer}
}

type UploadInput struct {
	ContentType string
	SizeBytes   int64
}

// GenerateUploadURL issues a presigned PUT for a fresh storage key. The key
// is what a message later references as its image.
func (s *UploadService) GenerateUploadURL(ctx context.Context, caller domain.UserID, in UploadInput) (upload.Ticket, error) {
	if caller.IsZero() {
		return upload.Ticket{}, teamchat_errors.ErrUnauthorized
	}
	if s.signer == nil {
		return upload.Ticket{}, teamchat_errors.ErrStorageUnconfigured
	}
	contentType := strings.TrimSpace(in.ContentType)
	if contentType != "" && !upload.IsImageType(contentType) {
		return upload.Ticket{}, teamchat_errors.ErrInvalidInput
	}
	if in.SizeBytes < 0 || in.SizeBytes > upload.MaxSizeBytes {
		return upload.Ticket{}, teamchat_errors.ErrInvalidInput
	}

	key := upload.KeyPrefix + uuid.NewString()
	url, headers, err := s.signer.PresignPut(ctx, key, contentType, in.SizeBytes)
	if err != nil {
		return upload.Ticket{}, err
	}
	return upload.Ticket{
		StorageKey: key,
		UploadURL:  url,
		Method:     "PUT",
		Headers:    headers,
		ExpiresAt:  time.Now().Add(s.signer.URLTTL()).UTC(),
	}, nil
}
