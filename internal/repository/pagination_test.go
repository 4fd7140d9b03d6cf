package repository

import (
	"testing"
	"time"

	teamchat_errors "teamchat/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.UnixMicro(1_700_000_000_123_456).UTC()
	id := uuid.New()

	c, err := DecodeCursor(EncodeCursor(at, id))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, at.Equal(c.CreatedAt))
	assert.Equal(t, id, c.ID)
}

func TestDecodeCursor(t *testing.T) {
	c, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, c)

	for _, bad := range []string{"!!", "bm9jb2xvbg", "MTIzOm5vdC1hLXV1aWQ"} {
		_, err := DecodeCursor(bad)
		assert.ErrorIs(t, err, teamchat_errors.ErrInvalidInput, bad)
	}
}

func TestPageRequestLimit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, PageRequest{}.Limit())
	assert.Equal(t, MaxPageSize, PageRequest{NumItems: 5000}.Limit())
	assert.Equal(t, 7, PageRequest{NumItems: 7}.Limit())
}

func TestCursorPrecedesBreaksTiesById(t *testing.T) {
	at := time.Now().UTC()
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	c := Cursor{CreatedAt: at, ID: high}

	assert.True(t, c.Precedes(at, low))
	assert.False(t, c.Precedes(at, high))
	assert.True(t, c.Precedes(at.Add(-time.Microsecond), high))
	assert.False(t, c.Precedes(at.Add(time.Microsecond), low))
}

func TestBuildPage(t *testing.T) {
	rows := []int{5, 4, 3}
	cursorOf := func(i int) string { return string(rune('a' + i)) }

	p := BuildPage(rows, 2, "prev", cursorOf)
	assert.Equal(t, []int{5, 4}, p.Page)
	assert.False(t, p.IsDone)
	assert.Equal(t, "e", p.ContinueCursor)

	p = BuildPage([]int{}, 2, "prev", cursorOf)
	assert.True(t, p.IsDone)
	assert.Equal(t, "prev", p.ContinueCursor)
}
