// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for public JSON responses.
// Anonymous reads of the home page, section listings and published articles
// are stored by request path and query; any editorial write clears them all.
package cache

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "public:"

	// DefaultResponseTTL is how long a public response stays cached.
	DefaultResponseTTL = 2 * time.Minute
)

// ResponseCache stores rendered public responses in Valkey. A nil
// *ResponseCache is valid and never hits.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get returns the cached body for key and whether it was found.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores body under key with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if rc == nil {
		return
	}
	if err := rc.client.Set(ctx, responseKeyPrefix+key, body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Purge removes every cached response by scanning for the prefix.
// Called after any write that can change what the public sees.
func (rc *ResponseCache) Purge(ctx context.Context) {
	if rc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, responseKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache purged", "deleted", deleted)
	}
}

// RequestKey returns the cache key for a request: its path plus the
// query string in canonical (sorted) order.
func RequestKey(r *http.Request) string {
	q := r.URL.Query().Encode()
	if q == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + q
}
