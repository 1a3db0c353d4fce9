package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/chanfeed/shared/domain"
)

func TestSetLike(t *testing.T) {
	sender := createTestUser(t)
	liker := createTestUser(t)
	msg := createTestMessage(t, sender, "like me")

	changed, err := storage.SetLike(msg.Id, liker.Id, true)
	require.NoError(t, err)
	assert.True(t, changed)

	count, err := storage.LikeCount(msg.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Repeat like changes nothing.
	changed, err = storage.SetLike(msg.Id, liker.Id, true)
	require.NoError(t, err)
	assert.False(t, changed)

	count, err = storage.LikeCount(msg.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	liked, err := storage.IsLikedBy(msg.Id, liker.Id)
	require.NoError(t, err)
	assert.True(t, liked)

	// Unlike removes the membership.
	changed, err = storage.SetLike(msg.Id, liker.Id, false)
	require.NoError(t, err)
	assert.True(t, changed)

	count, err = storage.LikeCount(msg.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Unliking again is a no-op.
	changed, err = storage.SetLike(msg.Id, liker.Id, false)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = storage.SetLike(-1, liker.Id, true)
	requireNotFoundError(t, err)
}

func TestLikedMessageIds(t *testing.T) {
	sender := createTestUser(t)
	liker := createTestUser(t)

	m1 := createTestMessage(t, sender, "one")
	m2 := createTestMessage(t, sender, "two")
	m3 := createTestMessage(t, sender, "three")

	_, err := storage.SetLike(m1.Id, liker.Id, true)
	require.NoError(t, err)
	_, err = storage.SetLike(m3.Id, liker.Id, true)
	require.NoError(t, err)

	liked, err := storage.LikedMessageIds(liker.Id, []domain.MsgId{m1.Id, m2.Id, m3.Id})
	require.NoError(t, err)
	assert.True(t, liked[m1.Id])
	assert.False(t, liked[m2.Id])
	assert.True(t, liked[m3.Id])
}

func TestLikeCountOnMessageRead(t *testing.T) {
	sender := createTestUser(t)
	a := createTestUser(t)
	b := createTestUser(t)
	msg := createTestMessage(t, sender, "popular")

	_, err := storage.SetLike(msg.Id, a.Id, true)
	require.NoError(t, err)
	_, err = storage.SetLike(msg.Id, b.Id, true)
	require.NoError(t, err)

	got, err := storage.GetMessage(msg.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount, "like count is derived from the liker set")
}
