// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/caminoapp/camino/config"
	"github.com/caminoapp/camino/mapview"
	"github.com/caminoapp/camino/pin"
)

const databaseFile = "camino.duckdb"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the map API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if err := os.MkdirAll(cfg.Database.Path, 0o750); err != nil {
			return fmt.Errorf("creating db directory: %w", err)
		}

		db, err := sql.Open("duckdb", filepath.Join(cfg.Database.Path, databaseFile))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		repo := pin.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating pin schema: %w", err)
		}

		var cache *pin.ViewportCache

		if cfg.Redis.Enabled {
			client, err := pin.NewRedisClient(
				cmd.Context(),
				cfg.Redis.Addr(),
				cfg.Redis.Password,
				cfg.Redis.DB,
				cfg.Redis.PoolSize,
			)
			if err != nil {
				return fmt.Errorf("connecting to redis: %w", err)
			}
			defer client.Close()

			cache = pin.NewViewportCache(client, cfg.Redis.TTL)

			fmt.Printf("🗃️  Viewport cache: redis at %s (ttl %s)\n", cfg.Redis.Addr(), cfg.Redis.TTL)
		}

		server := mapview.NewServer(repo, cache)

		fmt.Println("🗺️  Camino map server starting...")
		fmt.Printf("📍 Listening on http://%s\n", cfg.Server.Addr())

		return server.Run(cfg.Server.Addr())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
