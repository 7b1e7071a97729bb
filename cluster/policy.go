// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

// radiusTier maps a half-open zoom range to the grouping radius used within
// it. Tiers are checked in order; the last one also covers its upper bound.
type radiusTier struct {
	fromZoom float64
	toZoom   float64
	radiusM  float64
}

// radiusTiers is the zoom → radius table. The two finest tiers are never
// reached through Pins because of the noClusterZoom cutoff, but they are part
// of the policy and covered by tests.
var radiusTiers = []radiusTier{
	{fromZoom: 0, toZoom: 10, radiusM: 5000},
	{fromZoom: 10, toZoom: 12, radiusM: 1000},
	{fromZoom: 12, toZoom: 14, radiusM: 300},
	{fromZoom: 14, toZoom: 16, radiusM: 100},
	{fromZoom: 16, toZoom: 18, radiusM: 30},
	{fromZoom: 18, toZoom: 20, radiusM: 0},
}

// RadiusForZoom returns the clustering radius in meters for a zoom level.
// Out-of-range zoom values are resolved by the nearest tier: negative zoom
// gets the coarsest radius, zoom 20 the finest.
func RadiusForZoom(zoom float64) float64 {
	if zoom < radiusTiers[0].toZoom {
		return radiusTiers[0].radiusM
	}

	for _, tier := range radiusTiers[1:] {
		if zoom < tier.toZoom {
			return tier.radiusM
		}
	}

	return radiusTiers[len(radiusTiers)-1].radiusM
}
