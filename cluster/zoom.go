// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import "math"

const (
	minZoom = 0.0  // whole world
	maxZoom = 20.0 // building-level detail
)

// ZoomForSpan derives a normalized zoom level from the horizontal angular
// width of the viewport, in degrees. Halving the visible width is one zoom
// step in, matching tile-based zoom numbering: 360° of longitude is zoom 0,
// and the result is clamped to [0, 20].
//
// A span of zero or less has no geometric meaning; it is treated as maximum
// zoom rather than letting log2 produce Inf/NaN.
func ZoomForSpan(spanLngDeg float64) float64 {
	if spanLngDeg <= 0 {
		return maxZoom
	}

	zoom := math.Log2(360.0 / spanLngDeg)

	return math.Min(math.Max(zoom, minZoom), maxZoom)
}
