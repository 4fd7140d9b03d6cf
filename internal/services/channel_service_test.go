package services

import (
	"testing"

	"teamchat/internal/domain"
	teamchat_errors "teamchat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChannelNormalizesAndRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	u1, u2 := f.user(t, "u1"), f.user(t, "u2")
	ws, _ := f.workspace(t, u1, "Acme")
	f.join(t, u2, ws)

	_, err := f.channels.Create(f.ctx, u2, ws, "random")
	assert.ErrorIs(t, err, teamchat_errors.ErrForbidden)

	id, err := f.channels.Create(f.ctx, u1, ws, "Product   Launch")
	require.NoError(t, err)

	ch, err := f.channels.Get(f.ctx, u2, id)
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, "product-launch", ch.Name)

	chans, err := f.channels.List(f.ctx, u2, ws)
	require.NoError(t, err)
	assert.Len(t, chans, 2)
}

func TestListChannelsEmptyForNonMember(t *testing.T) {
	f := newFixture(t)
	u1, u2 := f.user(t, "u1"), f.user(t, "u2")
	ws, general := f.workspace(t, u1, "Acme")

	chans, err := f.channels.List(f.ctx, u2, ws)
	require.NoError(t, err)
	assert.Empty(t, chans)

	ch, err := f.channels.Get(f.ctx, domain.UserID{}, general)
	require.NoError(t, err)
	assert.Nil(t, ch)
}

func TestRemoveChannelDeletesItsMessagesAndReactions(t *testing.T) {
	f := newFixture(t)
	u1 := f.user(t, "u1")
	ws, general := f.workspace(t, u1, "Acme")
	other, err := f.channels.Create(f.ctx, u1, ws, "other")
	require.NoError(t, err)

	root := f.post(t, u1, ws, &general, nil, nil, "root")
	f.post(t, u1, ws, &general, nil, &root, "reply")
	kept := f.post(t, u1, ws, &other, nil, nil, "elsewhere")
	_, err = f.reactions.Toggle(f.ctx, u1, root, "👍")
	require.NoError(t, err)
	_, err = f.reactions.Toggle(f.ctx, u1, kept, "👍")
	require.NoError(t, err)

	_, err = f.channels.Remove(f.ctx, u1, general)
	require.NoError(t, err)

	counts := f.store.Counts()
	assert.EqualValues(t, 1, counts["channels"])
	assert.EqualValues(t, 1, counts["messages"])
	assert.EqualValues(t, 1, counts["reactions"])

	_, err = f.store.Messages().GetByID(f.ctx, kept)
	assert.NoError(t, err)
}
