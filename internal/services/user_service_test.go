package services

import (
	"testing"

	"teamchat/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	u1 := f.user(t, "u1")

	got, err := f.users.Current(f.ctx, u1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.DisplayName())

	got, err = f.users.Current(f.ctx, domain.UserID{})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.users.Current(f.ctx, domain.New[domain.UserID]())
	require.NoError(t, err)
	assert.Nil(t, got)
}
