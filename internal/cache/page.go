// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides the Valkey-backed cache of rendered public wedding pages.
// Only live, non-preview renders are stored; every tenant mutation drops
// the wedding's keys.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roblesbraun/braunstudio/internal/metrics"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// modes lists every mode a page can be cached under.
var modes = []theme.Mode{theme.Light, theme.Dark}

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Key returns the cache key of a wedding page in one color mode.
func Key(slug string, mode theme.Mode) string {
	return pageKeyPrefix + slug + ":" + string(mode)
}

// Get retrieves cached HTML. Errors are logged and reported as a miss.
func (pc *PageCache) Get(ctx context.Context, slug string, mode theme.Mode) ([]byte, bool) {
	key := Key(slug, mode)
	val, err := pc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.PageCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.PageCache.WithLabelValues("error").Inc()
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	metrics.PageCache.WithLabelValues("hit").Inc()
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, slug string, mode theme.Mode, html []byte) {
	key := Key(slug, mode)
	if err := pc.client.Set(ctx, key, html, pc.ttl).Err(); err != nil {
		metrics.PageCache.WithLabelValues("error").Inc()
		slog.Warn("page cache set error", "key", key, "error", err)
		return
	}
	metrics.PageCache.WithLabelValues("store").Inc()
}

// InvalidateWedding removes every cached mode of a wedding's page.
func (pc *PageCache) InvalidateWedding(ctx context.Context, slug string) {
	keys := make([]string, 0, len(modes))
	for _, m := range modes {
		keys = append(keys, Key(slug, m))
	}
	if err := pc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("page cache invalidate error", "slug", slug, "error", err)
		return
	}
	metrics.PageCache.WithLabelValues("invalidate").Inc()
	slog.Debug("page cache invalidated", "slug", slug)
}

// InvalidateAll removes all cached pages by scanning for the prefix.
// Called at startup, since a new build may change the page shell.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
