package teamchat_errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidInput        = errors.New("invalid input")
	ErrRateLimited         = errors.New("rate limited")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvariantViolation  = errors.New("invariant violation")
	ErrStorageUnconfigured = errors.New("file storage not configured")
)

// Workspace rules
var (
	ErrAdminRemoval     = fmt.Errorf("%w: admin cannot be removed", ErrInvariantViolation)
	ErrSelfAdminRemoval = fmt.Errorf("%w: cannot remove self if self is an admin", ErrInvariantViolation)
	ErrInvalidJoinCode  = fmt.Errorf("%w: invalid join code", ErrInvalidInput)
	ErrParentNotFound   = fmt.Errorf("%w: parent message not found", ErrNotFound)
)
