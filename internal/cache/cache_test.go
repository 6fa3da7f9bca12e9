package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlaJam82/chat-app/internal/models"
)

func TestNilCacheIsPermanentMiss(t *testing.T) {
	var c *LastMessageCache
	ctx := context.Background()

	_, ok := c.Get(ctx, "music")
	assert.False(t, ok)

	// Writes and invalidations on the nil cache must not panic.
	c.Set(ctx, "music", models.MessagePreview{Text: "hi"})
	c.Invalidate(ctx, "music")
}

// Exercises the real round trip when a Redis instance is available.
func TestCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	c := New(client, "test:lastmsg:", time.Minute)
	preview := models.MessagePreview{Text: "hello", Sender: "Alice", CreatedAt: time.Now().UTC().Truncate(time.Second)}

	c.Set(ctx, "music", preview)

	got, ok := c.Get(ctx, "music")
	require.True(t, ok)
	assert.Equal(t, preview.Text, got.Text)
	assert.Equal(t, preview.Sender, got.Sender)

	c.Invalidate(ctx, "music")
	_, ok = c.Get(ctx, "music")
	assert.False(t, ok)
}
