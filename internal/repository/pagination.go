package repository

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"teamchat/internal/domain/message"
	teamchat_errors "teamchat/pkg/errors"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PageRequest struct {
	NumItems int
	Cursor   string
}

// Limit clamps NumItems into [1, MaxPageSize], defaulting when unset.
func (p PageRequest) Limit() int {
	switch {
	case p.NumItems <= 0:
		return DefaultPageSize
	case p.NumItems > MaxPageSize:
		return MaxPageSize
	default:
		return p.NumItems
	}
}

type Page[T any] struct {
	Page           []T
	IsDone         bool
	ContinueCursor string
}

// MapPage converts the items of a page, keeping its cursor state. Items for
// which fn reports false are dropped.
func MapPage[T, U any](p Page[T], fn func(T) (U, bool)) Page[U] {
	out := Page[U]{Page: make([]U, 0, len(p.Page)), IsDone: p.IsDone, ContinueCursor: p.ContinueCursor}
	for _, item := range p.Page {
		if v, ok := fn(item); ok {
			out.Page = append(out.Page, v)
		}
	}
	return out
}

// Cursor marks the last row a client has seen in a newest-first listing.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func EncodeCursor(createdAt time.Time, id uuid.UUID) string {
	raw := strconv.FormatInt(createdAt.UnixNano(), 10) + ":" + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor returns nil for an empty cursor.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", teamchat_errors.ErrInvalidInput)
	}
	nanos, idPart, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil, fmt.Errorf("%w: malformed cursor", teamchat_errors.ErrInvalidInput)
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", teamchat_errors.ErrInvalidInput)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", teamchat_errors.ErrInvalidInput)
	}
	return &Cursor{CreatedAt: time.Unix(0, n).UTC(), ID: id}, nil
}

// Precedes reports whether a row sorts strictly after the cursor in
// newest-first order, i.e. whether it belongs on a later page.
func (c Cursor) Precedes(createdAt time.Time, id uuid.UUID) bool {
	if createdAt.Equal(c.CreatedAt) {
		return bytes.Compare(id[:], c.ID[:]) < 0
	}
	return createdAt.Before(c.CreatedAt)
}

// NewestFirst orders rows by creation time then id, both descending.
func NewestFirst(aTime time.Time, aID uuid.UUID, bTime time.Time, bID uuid.UUID) bool {
	if aTime.Equal(bTime) {
		return bytes.Compare(aID[:], bID[:]) > 0
	}
	return aTime.After(bTime)
}

// BuildPage trims the look-ahead row of a limit+1 query and derives the
// continuation cursor from the last row kept.
func BuildPage[T any](rows []T, limit int, prevCursor string, cursorOf func(T) string) Page[T] {
	out := Page[T]{IsDone: len(rows) <= limit, ContinueCursor: prevCursor}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out.Page = rows
	if n := len(rows); n > 0 {
		out.ContinueCursor = cursorOf(rows[n-1])
	}
	return out
}

func MessageCursor(m message.Message) string {
	return EncodeCursor(m.CreatedAt, m.ID.UUID)
}
