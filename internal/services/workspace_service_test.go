package services

import (
	"testing"

	"teamchat/internal/domain"
	"teamchat/internal/domain/member"
	"teamchat/internal/events"
	teamchat_errors "teamchat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkspaceOpensGeneralChannel(t *testing.T) {
	f := newFixture(t)
	u1 := f.user(t, "u1")

	ws, err := f.workspaces.Create(f.ctx, u1, "Acme")
	require.NoError(t, err)

	chans, err := f.channels.List(f.ctx, u1, ws)
	require.NoError(t, err)
	require.Len(t, chans, 1)
	assert.Equal(t, "general", chans[0].Name)

	current, err := f.members.Current(f.ctx, u1, ws)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, member.RoleAdmin, current.Role)

	got, err := f.workspaces.Get(f.ctx, u1, ws)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Name)
	assert.Len(t, got.JoinCode, 6)
	assert.Contains(t, f.bus.types(), events.EventTypeWorkspaceCreated)
}

func TestCreateWorkspaceRejectsAnonymousAndBlank(t *testing.T) {
	f := newFixture(t)
	_, err := f.workspaces.Create(f.ctx, domain.UserID{}, "Acme")
	assert.ErrorIs(t, err, teamchat_errors.ErrUnauthorized)

	_, err = f.workspaces.Create(f.ctx, f.user(t, "u1"), "   ")
	assert.ErrorIs(t, err, teamchat_errors.ErrInvalidInput)
	assert.Zero(t, f.store.Counts()["workspaces"])
}

func TestWorkspaceQueriesAreEmptyForOutsiders(t *testing.T) {
	f := newFixture(t)
	u1, u2 := f.user(t, "u1"), f.user(t, "u2")
	ws, _ := f.workspace(t, u1, "Acme")

	got, err := f.workspaces.Get(f.ctx, u2, ws)
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := f.workspaces.List(f.ctx, u2)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = f.workspaces.List(f.ctx, domain.UserID{})
	require.NoError(t, err)
	assert.Empty(t, list)

	info, err := f.workspaces.GetInfo(f.ctx, u2, ws)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Acme", info.Name)
	assert.False(t, info.IsMember)
}

func TestJoinWorkspace(t *testing.T) {
	f := newFixture(t)
	u1, u2 := f.user(t, "u1"), f.user(t, "u2")
	ws, _ := f.workspace(t, u1, "Acme")

	_, err := f.workspaces.Join(f.ctx, u2, ws, "ABC123")
	assert.ErrorIs(t, err, teamchat_errors.ErrInvalidJoinCode)

	_, err = f.workspaces.Join(f.ctx, u2, ws, "abc123")
	require.NoError(t, err)

	members, err := f.members.List(f.ctx, u1, ws)
	require.NoError(t, err)
	require.Len(t, members, 2)
	var joined *member.WithUser
	for i := range members {
		if members[i].UserID == u2 {
			joined = &members[i]
		}
	}
	require.NotNil(t, joined)
	assert.Equal(t, member.RoleMember, joined.Role)
	assert.Equal(t, "u2", joined.User.DisplayName())

	_, err = f.workspaces.Join(f.ctx, u2, ws, "abc123")
	assert.ErrorIs(t, err, teamchat_errors.ErrAlreadyExists)
}

func TestWorkspaceAdminOperations(t *testing.T) {
	f := newFixture(t)
	u1, u2 := f.user(t, "u1"), f.user(t, "u2")
	ws, _ := f.workspace(t, u1, "Acme")
	f.join(t, u2, ws)

	_, err := f.workspaces.Update(f.ctx, u2, ws, "Mine")
	assert.ErrorIs(t, err, teamchat_errors.ErrForbidden)
	_, err = f.workspaces.NewJoinCode(f.ctx, u2, ws)
	assert.ErrorIs(t, err, teamchat_errors.ErrForbidden)

	_, err = f.workspaces.Update(f.ctx, u1, ws, "Acme Inc")
	require.NoError(t, err)

	f.workspaces.joinCode = func() string { return "zzz999" }
	_, err = f.workspaces.NewJoinCode(f.ctx, u1, ws)
	require.NoError(t, err)

	got, err := f.workspaces.Get(f.ctx, u1, ws)
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", got.Name)
	assert.Equal(t, "zzz999", got.JoinCode)
}

func TestRemoveWorkspaceDeletesOnlyMembersAndWorkspace(t *testing.T) {
	f := newFixture(t)
	u1, u2 := f.user(t, "u1"), f.user(t, "u2")
	ws, general := f.workspace(t, u1, "Acme")
	f.join(t, u2, ws)
	f.post(t, u1, ws, &general, nil, nil, "hello")

	_, err := f.workspaces.Remove(f.ctx, u2, ws)
	assert.ErrorIs(t, err, teamchat_errors.ErrForbidden)

	_, err = f.workspaces.Remove(f.ctx, u1, ws)
	require.NoError(t, err)

	counts := f.store.Counts()
	assert.Zero(t, counts["workspaces"])
	assert.Zero(t, counts["members"])
	assert.EqualValues(t, 1, counts["channels"])
	assert.EqualValues(t, 1, counts["messages"])
}
