package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client)
}

func TestNilCacheIsNoOp(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	assert.False(t, c.Enabled())

	_, ok := c.GetUnreadNotificationCount(ctx, 1)
	assert.False(t, ok)
	c.SetUnreadNotificationCount(ctx, 1, 5)
	c.InvalidateUnreadNotifications(ctx, 1)

	_, ok = c.GetSuggestionCandidates(ctx, 1)
	assert.False(t, ok)
	c.SetSuggestionCandidates(ctx, 1, []uint{1, 2})
	c.InvalidateSuggestions(ctx, 1)
}

func TestUnreadNotificationCountRoundTrip(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, ok := c.GetUnreadNotificationCount(ctx, 42)
	assert.False(t, ok)

	c.SetUnreadNotificationCount(ctx, 42, 7)
	count, ok := c.GetUnreadNotificationCount(ctx, 42)
	require.True(t, ok)
	assert.Equal(t, int64(7), count)

	// Per-user keys do not collide.
	_, ok = c.GetUnreadNotificationCount(ctx, 43)
	assert.False(t, ok)

	c.InvalidateUnreadNotifications(ctx, 42)
	_, ok = c.GetUnreadNotificationCount(ctx, 42)
	assert.False(t, ok)
}

func TestSuggestionCandidatesRoundTrip(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, ok := c.GetSuggestionCandidates(ctx, 1)
	assert.False(t, ok)

	c.SetSuggestionCandidates(ctx, 1, []uint{3, 1, 2})
	ids, ok := c.GetSuggestionCandidates(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, []uint{3, 1, 2}, ids)

	c.InvalidateSuggestions(ctx, 1)
	_, ok = c.GetSuggestionCandidates(ctx, 1)
	assert.False(t, ok)
}

func TestEmptyCandidateSetIsNotCached(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	c.SetSuggestionCandidates(ctx, 1, nil)
	_, ok := c.GetSuggestionCandidates(ctx, 1)
	assert.False(t, ok)
}
