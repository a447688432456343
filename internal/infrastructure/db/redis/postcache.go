package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/escola-conecta/blog-api/internal/core/ports"
)

const (
	cacheTTL   = time.Minute
	versionKey = "posts:ver"
)

// PostCache caches public listing and search pages in Redis.
//
// Entry keys embed a version counter: posts:<ver>:<kind>:<query>:<page>:<limit>.
// Any post mutation bumps the counter, orphaning every cached page at once;
// orphans expire with their TTL. Cache failures degrade to direct reads.
type PostCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewPostCache creates a PostCache wrapping the given Redis client.
func NewPostCache(client *redis.Client, log zerolog.Logger) *PostCache {
	return &PostCache{client: client, log: log}
}

// GetPage returns a cached page, or (nil, false) on miss or error.
func (c *PostCache) GetPage(ctx context.Context, kind, query string, page, limit int) (*ports.PostPage, bool) {
	key, err := c.key(ctx, kind, query, page, limit)
	if err != nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var pg ports.PostPage
	if err := json.Unmarshal(raw, &pg); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("corrupt cache entry, dropping")
		_ = c.client.Del(ctx, key).Err()
		return nil, false
	}
	return &pg, true
}

// SetPage stores a page under the current version (expires after cacheTTL).
func (c *PostCache) SetPage(ctx context.Context, kind, query string, page, limit int, pg *ports.PostPage) {
	key, err := c.key(ctx, kind, query, page, limit)
	if err != nil {
		return
	}

	raw, err := json.Marshal(pg)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("failed to cache listing page")
	}
}

// Bump invalidates all cached pages by advancing the version counter.
func (c *PostCache) Bump(ctx context.Context) {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("failed to bump listing cache version")
	}
}

func (c *PostCache) key(ctx context.Context, kind, query string, page, limit int) (string, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("posts:%d:%s:%s:%d:%d", ver, kind, query, page, limit), nil
}
