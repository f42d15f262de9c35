package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs. Unread counts are cheap to recompute, so they are cached briefly
// and invalidated on every write that could change them.
const (
	unreadTTL      = 30 * time.Second
	suggestionsTTL = 5 * time.Minute
)

// Cache is a nil-safe wrapper around an optional Redis client. A Cache with
// a nil client is a no-op: every Get misses and every Set/Invalidate is
// silently skipped.
type Cache struct {
	client *redis.Client
}

// New creates a Cache. client may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func unreadNotifKey(userID uint) string {
	return fmt.Sprintf("unread:notifications:%d", userID)
}

func suggestionsKey(userID uint) string {
	return fmt.Sprintf("suggestions:%d", userID)
}

// GetUnreadNotificationCount returns the cached unread count, or ok=false
// on a miss.
func (c *Cache) GetUnreadNotificationCount(ctx context.Context, userID uint) (int64, bool) {
	if !c.Enabled() {
		return 0, false
	}
	val, err := c.client.Get(ctx, unreadNotifKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetUnreadNotificationCount caches the unread count for a short window.
func (c *Cache) SetUnreadNotificationCount(ctx context.Context, userID uint, count int64) {
	if !c.Enabled() {
		return
	}
	c.client.Set(ctx, unreadNotifKey(userID), count, unreadTTL)
}

// InvalidateUnreadNotifications drops the cached unread count after a write.
func (c *Cache) InvalidateUnreadNotifications(ctx context.Context, userID uint) {
	if !c.Enabled() {
		return
	}
	c.client.Del(ctx, unreadNotifKey(userID))
}

// GetSuggestionCandidates returns the cached candidate user IDs for the
// suggestion sampler, or ok=false on a miss.
func (c *Cache) GetSuggestionCandidates(ctx context.Context, userID uint) ([]uint, bool) {
	if !c.Enabled() {
		return nil, false
	}
	vals, err := c.client.LRange(ctx, suggestionsKey(userID), 0, -1).Result()
	if err != nil || len(vals) == 0 {
		return nil, false
	}
	ids := make([]uint, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}

// SetSuggestionCandidates caches the candidate user IDs.
func (c *Cache) SetSuggestionCandidates(ctx context.Context, userID uint, ids []uint) {
	if !c.Enabled() || len(ids) == 0 {
		return
	}
	key := suggestionsKey(userID)
	vals := make([]interface{}, len(ids))
	for i, id := range ids {
		vals[i] = strconv.FormatUint(uint64(id), 10)
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, vals...)
	pipe.Expire(ctx, key, suggestionsTTL)
	pipe.Exec(ctx)
}

// InvalidateSuggestions drops the cached candidates, called after the
// follow graph changes for the user.
func (c *Cache) InvalidateSuggestions(ctx context.Context, userID uint) {
	if !c.Enabled() {
		return
	}
	c.client.Del(ctx, suggestionsKey(userID))
}
