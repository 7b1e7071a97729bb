// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package pin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/caminoapp/camino/spatial"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "camino:viewport:"

// ViewportCache is an optional read-through cache for viewport pin queries.
// Viewport bounds are rounded to ~100 m so that tiny pans during a drag reuse
// a cached pin list. The clustering engine itself stays cache-free; this sits
// on the pin-source side.
type ViewportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewportCache wraps a redis client. A zero ttl disables expiry.
func NewViewportCache(client *redis.Client, ttl time.Duration) *ViewportCache {
	return &ViewportCache{client: client, ttl: ttl}
}

// NewRedisClient creates a redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db, poolSize int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     poolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return client, nil
}

// Key returns the cache key for a viewport, with bounds rounded to 3 decimal
// places (roughly 111 m at the equator).
func (c *ViewportCache) Key(vp spatial.Viewport) string {
	minLat, maxLat, minLng, maxLng := vp.Bounds()

	return fmt.Sprintf("%s%.3f:%.3f:%.3f:%.3f", cacheKeyPrefix, minLat, maxLat, minLng, maxLng)
}

// Get returns the cached pin list for the viewport, if present.
func (c *ViewportCache) Get(ctx context.Context, vp spatial.Viewport) ([]*Pin, bool) {
	data, err := c.client.Get(ctx, c.Key(vp)).Bytes()
	if err != nil {
		return nil, false
	}

	var pins []*Pin
	if err := json.Unmarshal(data, &pins); err != nil {
		return nil, false
	}

	return pins, true
}

// Set stores the pin list for the viewport.
func (c *ViewportCache) Set(ctx context.Context, vp spatial.Viewport, pins []*Pin) error {
	data, err := json.Marshal(pins)
	if err != nil {
		return fmt.Errorf("marshaling pins for cache: %w", err)
	}

	return c.client.Set(ctx, c.Key(vp), data, c.ttl).Err()
}

// Invalidate drops every cached viewport. Called after writes so stale pin
// lists never outlive a mutation by more than the current request.
func (c *ViewportCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()

	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}
