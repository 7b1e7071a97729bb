// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package pin

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caminoapp/camino/spatial"
)

// LoadGeoJSON reads pins from a GeoJSON FeatureCollection of Point features.
// Recognized properties: "id" (optional, assigned on insert when missing),
// "title" (falls back to "name"), and "visited".
func LoadGeoJSON(filepath string) ([]*Pin, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return nil, fmt.Errorf("reading pins file: %w", err)
	}

	var geoJSON struct {
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties struct {
				ID      string `json:"id"`
				Title   string `json:"title"`
				Name    string `json:"name"`
				Visited bool   `json:"visited"`
			} `json:"properties"`
		} `json:"features"`
	}

	if err := json.Unmarshal(data, &geoJSON); err != nil {
		return nil, fmt.Errorf("parsing pins JSON: %w", err)
	}

	pins := make([]*Pin, 0, len(geoJSON.Features))

	for i, feature := range geoJSON.Features {
		if feature.Geometry.Type != "Point" {
			return nil, fmt.Errorf("feature %d: unsupported geometry type %q", i, feature.Geometry.Type)
		}

		if len(feature.Geometry.Coordinates) < 2 {
			return nil, fmt.Errorf("feature %d: point needs [lng, lat] coordinates", i)
		}

		title := feature.Properties.Title
		if title == "" {
			title = feature.Properties.Name
		}

		p := &Pin{
			ID:      feature.Properties.ID,
			Title:   title,
			Visited: feature.Properties.Visited,
			Point: spatial.Point{
				Lng: feature.Geometry.Coordinates[0],
				Lat: feature.Geometry.Coordinates[1],
			},
		}

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		pins = append(pins, p)
	}

	return pins, nil
}
