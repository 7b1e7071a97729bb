// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package pin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caminoapp/camino/spatial"
)

func TestViewportCacheKey(t *testing.T) {
	cache := NewViewportCache(nil, 0)

	base := spatial.Viewport{
		Center:  spatial.Point{Lat: -34.9066, Lng: -56.1996},
		SpanLat: 0.02,
		SpanLng: 0.02,
	}

	key := cache.Key(base)
	assert.Equal(t, "camino:viewport:-34.917:-34.897:-56.210:-56.190", key)

	// A sub-rounding pan lands on the same key.
	nudged := base
	nudged.Center.Lat += 0.00004
	assert.Equal(t, key, cache.Key(nudged))

	// A real pan does not.
	panned := base
	panned.Center.Lng += 0.01
	assert.NotEqual(t, key, cache.Key(panned))
}
