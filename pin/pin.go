// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

// Package pin stores and loads the map pins that feed the clustering engine.
package pin

import (
	"fmt"
	"time"

	"github.com/caminoapp/camino/spatial"
	"github.com/uber/h3-go/v4"
)

// Pin is a stored place pin: a point of interest a user dropped on the map.
type Pin struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Point     spatial.Point `json:"point"`
	Visited   bool          `json:"visited"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	H3Res1    int64         `json:"-"`
	H3Res2    int64         `json:"-"`
	H3Res3    int64         `json:"-"`
	H3Res4    int64         `json:"-"`
	H3Res5    int64         `json:"-"`
	H3Res6    int64         `json:"-"`
	H3Res7    int64         `json:"-"`
	H3Res8    int64         `json:"-"`
}

// computeH3 fills the H3 cell columns for resolutions 1 through 8. The cells
// back the coarse density heatmap without recomputing geometry per query.
func (p *Pin) computeH3() error {
	latLng := h3.NewLatLng(p.Point.Lat, p.Point.Lng)
	for res := 1; res <= 8; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
		}

		switch res {
		case 1:
			p.H3Res1 = int64(cell)
		case 2:
			p.H3Res2 = int64(cell)
		case 3:
			p.H3Res3 = int64(cell)
		case 4:
			p.H3Res4 = int64(cell)
		case 5:
			p.H3Res5 = int64(cell)
		case 6:
			p.H3Res6 = int64(cell)
		case 7:
			p.H3Res7 = int64(cell)
		case 8:
			p.H3Res8 = int64(cell)
		}
	}

	return nil
}

// validateCoordinates verifies global latitude/longitude limits.
func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 (got: %f)", lat)
	}

	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 (got: %f)", lng)
	}

	return nil
}

// Validate checks that the pin can be persisted.
func (p *Pin) Validate() error {
	if len(p.Title) == 0 || len(p.Title) > 500 {
		return fmt.Errorf("title must be 1-500 characters (got %d)", len(p.Title))
	}

	if err := validateCoordinates(p.Point.Lat, p.Point.Lng); err != nil {
		return fmt.Errorf("invalid coordinates: %w", err)
	}

	return nil
}
