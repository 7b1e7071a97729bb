// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

// Package cluster partitions map pins into visual clusters whose granularity
// adapts to the zoom level implied by the current viewport.
//
// The whole package is a pure, synchronous transform: Pins recomputes the
// grouping from scratch on every call, holds no state between calls, and is
// safe to invoke concurrently. Re-grouping is O(n²) in the number of pins,
// which is fine for on-screen pin counts; callers that re-cluster during a
// drag gesture should debounce, the engine does not rate-limit.
package cluster

import "github.com/caminoapp/camino/spatial"

// Pin is a single point of interest on the map. Pins are input only: the
// engine never mutates them, and duplicate ids are the caller's problem.
type Pin struct {
	ID      string        `json:"id"`
	Point   spatial.Point `json:"point"`
	Visited bool          `json:"visited"`
}

// noClusterZoom is the zoom level above which clustering is skipped entirely
// and every pin renders as its own marker. Note that this cutoff makes the
// [16,18) and [18,20] rows of the radius table unreachable through Pins; the
// rows stay in the table for completeness.
const noClusterZoom = 16.0

// Pins groups the given pins for the viewport and returns one Item per
// marker to draw: a Single for each lone pin and a Cluster for each group of
// two or more.
//
// Membership is deterministic for identical input (same pins, same order,
// same viewport); only the generated Cluster ids differ between calls.
// Grouping depends on the order pins are passed in, which is preserved.
func Pins(pins []Pin, viewport spatial.Viewport) []Item {
	items := make([]Item, 0, len(pins))

	if ZoomForSpan(viewport.SpanLng) > noClusterZoom {
		for _, p := range pins {
			items = append(items, Single{Pin: p})
		}

		return items
	}

	radius := RadiusForZoom(ZoomForSpan(viewport.SpanLng))

	for _, group := range groupByDistance(pins, radius) {
		items = append(items, summarize(group))
	}

	return items
}
