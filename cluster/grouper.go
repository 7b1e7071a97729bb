// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

// groupByDistance partitions pins into groups using seed-anchored single
// linkage: the first unconsumed pin becomes the seed of a new group, and one
// pass over the remaining pins pulls in every pin closer than radius to the
// seed. Distance is measured to the seed only, never to other members, so the
// rule is deliberately non-transitive: B and C both within radius of seed A
// group together even if B and C are far apart, while a pin near B but far
// from A stays out. Do not "fix" this into transitive clustering — renderers
// depend on the seed-only semantics.
//
// Every input pin lands in exactly one group, in input order. O(n²) worst
// case: each seed scans the pins after it.
func groupByDistance(pins []Pin, radiusM float64) [][]Pin {
	groups := make([][]Pin, 0, len(pins))
	taken := make([]bool, len(pins))

	for i := range pins {
		if taken[i] {
			continue
		}

		seed := pins[i]
		taken[i] = true
		group := []Pin{seed}

		for j := i + 1; j < len(pins); j++ {
			if taken[j] {
				continue
			}

			if seed.Point.HaversineDistance(&pins[j].Point) < radiusM {
				group = append(group, pins[j])
				taken[j] = true
			}
		}

		groups = append(groups, group)
	}

	return groups
}
