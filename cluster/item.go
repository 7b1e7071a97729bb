// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"github.com/caminoapp/camino/spatial"
	"github.com/google/uuid"
)

// Item is one marker to draw: either a Single pin or a Cluster. Both expose
// the same id/location accessors so the renderer can treat them uniformly.
type Item interface {
	// ItemID identifies the marker. For a Single it is the pin id; for a
	// Cluster it is freshly generated per call and not stable across calls.
	ItemID() string

	// Location is where the marker is drawn.
	Location() spatial.Point
}

// Single is a pin rendered as its own marker.
type Single struct {
	Pin Pin `json:"pin"`
}

// ItemID returns the wrapped pin's id.
func (s Single) ItemID() string { return s.Pin.ID }

// Location returns the wrapped pin's coordinate.
func (s Single) Location() spatial.Point { return s.Pin.Point }

// Cluster is a group of two or more pins rendered as one marker.
type Cluster struct {
	ID        string        `json:"id"`
	Point     spatial.Point `json:"point"`
	MemberIDs []string      `json:"member_ids"`
	Count     int           `json:"count"`
	Visited   bool          `json:"visited"`
}

// ItemID returns the per-call cluster id.
func (c Cluster) ItemID() string { return c.ID }

// Location returns the cluster centroid.
func (c Cluster) Location() spatial.Point { return c.Point }

// summarize projects one group into its output Item. Singleton groups pass
// the pin through untouched; larger groups get an arithmetic-mean centroid
// (valid at neighborhood/city scale, not near poles or the antimeridian),
// member ids in their original relative order, and a visited flag that is the
// OR of the members'.
func summarize(group []Pin) Item {
	if len(group) == 1 {
		return Single{Pin: group[0]}
	}

	var sumLat, sumLng float64

	memberIDs := make([]string, 0, len(group))
	visited := false

	for _, p := range group {
		sumLat += p.Point.Lat
		sumLng += p.Point.Lng

		memberIDs = append(memberIDs, p.ID)

		if p.Visited {
			visited = true
		}
	}

	n := float64(len(group))

	return Cluster{
		ID: uuid.NewString(),
		Point: spatial.Point{
			Lat: sumLat / n,
			Lng: sumLng / n,
		},
		MemberIDs: memberIDs,
		Count:     len(group),
		Visited:   visited,
	}
}

// SizeTier is the presentation bucket for a cluster marker. The renderer
// derives both marker diameter and label font size from it.
type SizeTier int

const (
	// TierSmallest covers counts 2-5.
	TierSmallest SizeTier = iota
	// TierSmall covers counts 6-10.
	TierSmall
	// TierMedium covers counts 11-20.
	TierMedium
	// TierLarge covers counts 21-50.
	TierLarge
	// TierLargest covers counts of 51 and up.
	TierLargest
)

// String returns the wire name of the tier.
func (t SizeTier) String() string {
	switch t {
	case TierSmallest:
		return "smallest"
	case TierSmall:
		return "small"
	case TierMedium:
		return "medium"
	case TierLarge:
		return "large"
	case TierLargest:
		return "largest"
	default:
		return "unknown"
	}
}

// TierForCount maps a cluster member count to its size tier.
func TierForCount(count int) SizeTier {
	switch {
	case count <= 5:
		return TierSmallest
	case count <= 10:
		return TierSmall
	case count <= 20:
		return TierMedium
	case count <= 50:
		return TierLarge
	default:
		return TierLargest
	}
}
