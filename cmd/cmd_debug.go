// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caminoapp/camino/cluster"
	"github.com/caminoapp/camino/spatial"
	"github.com/caminoapp/camino/utils"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Inspection helpers for development",
}

var debugClusterOptions struct {
	Lat     float64
	Lng     float64
	SpanLat float64
	SpanLng float64
}

var debugClusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Show how stored pins group for a viewport",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, repo, err := openPinDB()
		if err != nil {
			return err
		}
		defer db.Close()

		viewport := spatial.Viewport{
			Center:  spatial.Point{Lat: debugClusterOptions.Lat, Lng: debugClusterOptions.Lng},
			SpanLat: debugClusterOptions.SpanLat,
			SpanLng: debugClusterOptions.SpanLng,
		}

		stored, err := repo.ListInViewport(viewport, 10000)
		if err != nil {
			return fmt.Errorf("listing pins: %w", err)
		}

		input := make([]cluster.Pin, 0, len(stored))
		titles := make(map[string]string, len(stored))

		for _, p := range stored {
			input = append(input, cluster.Pin{ID: p.ID, Point: p.Point, Visited: p.Visited})
			titles[p.ID] = p.Title
		}

		zoom := cluster.ZoomForSpan(viewport.SpanLng)
		items := cluster.Pins(input, viewport)

		fmt.Printf("zoom %.2f, radius %.0f m, %s pins in viewport\n",
			zoom,
			cluster.RadiusForZoom(zoom),
			utils.FormatInt(int64(len(stored))))

		singles := 0
		clusters := 0

		for _, item := range items {
			switch v := item.(type) {
			case cluster.Single:
				singles++

				fmt.Printf("  pin      %-36s %-30s (%.5f, %.5f)\n",
					v.Pin.ID, titles[v.Pin.ID], v.Pin.Point.Lat, v.Pin.Point.Lng)
			case cluster.Cluster:
				clusters++

				fmt.Printf("  cluster  %-36s %3d pins [%s] centroid (%.5f, %.5f)\n",
					v.ID, v.Count, cluster.TierForCount(v.Count), v.Point.Lat, v.Point.Lng)
			}
		}

		fmt.Printf("%d items: %d clusters, %d singles\n", len(items), clusters, singles)

		return nil
	},
}

func init() {
	debugClusterCmd.Flags().Float64Var(&debugClusterOptions.Lat, "lat", 0, "viewport center latitude")
	debugClusterCmd.Flags().Float64Var(&debugClusterOptions.Lng, "lng", 0, "viewport center longitude")
	debugClusterCmd.Flags().Float64Var(&debugClusterOptions.SpanLat, "span-lat", 0.1, "viewport height in degrees")
	debugClusterCmd.Flags().Float64Var(&debugClusterOptions.SpanLng, "span-lng", 0.1, "viewport width in degrees")

	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugClusterCmd)
}
