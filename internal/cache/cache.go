// Package cache provides a Redis-backed cache-aside layer for the room
// listing's last-message previews.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BlaJam82/chat-app/internal/models"
)

// LastMessageCache caches the most recent message preview per room. A nil
// *LastMessageCache is valid and behaves as a permanent miss, so callers
// never need to check whether Redis is configured.
type LastMessageCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a cache over an existing Redis client.
func New(client *redis.Client, prefix string, ttl time.Duration) *LastMessageCache {
	return &LastMessageCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached preview for a room and whether it was present.
func (c *LastMessageCache) Get(ctx context.Context, room string) (models.MessagePreview, bool) {
	if c == nil {
		return models.MessagePreview{}, false
	}

	data, err := c.client.Get(ctx, c.prefix+room).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get error for room %s: %v", room, err)
		}
		return models.MessagePreview{}, false
	}

	var preview models.MessagePreview
	if err := json.Unmarshal(data, &preview); err != nil {
		return models.MessagePreview{}, false
	}
	return preview, true
}

// Set stores the preview for a room.
func (c *LastMessageCache) Set(ctx context.Context, room string, preview models.MessagePreview) {
	if c == nil {
		return
	}

	data, err := json.Marshal(preview)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+room, data, c.ttl).Err(); err != nil {
		log.Printf("cache set error for room %s: %v", room, err)
	}
}

// Invalidate drops the cached preview for a room. Called after any message
// mutation so the next listing refetches from the log.
func (c *LastMessageCache) Invalidate(ctx context.Context, room string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, c.prefix+room).Err(); err != nil {
		log.Printf("cache invalidate error for room %s: %v", room, err)
	}
}
