// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/caminoapp/camino/config"
	"github.com/caminoapp/camino/pin"
	"github.com/caminoapp/camino/utils"
)

const pinsFile = "pins.json"

// importBatchSize keeps transactions for large pin sets at a reasonable size.
const importBatchSize = 500

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Manage the stored pin set",
}

func openPinDB() (*sql.DB, pin.Repository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.Database.Path, 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(cfg.Database.Path, databaseFile))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo := pin.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating pin schema: %w", err)
	}

	return db, repo, nil
}

var pinsImportCmd = &cobra.Command{
	Use:   "import <file.geojson>",
	Short: "Import pins from a GeoJSON FeatureCollection",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		pins, err := pin.LoadGeoJSON(args[0])
		if err != nil {
			return fmt.Errorf("loading pins: %w", err)
		}

		db, repo, err := openPinDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(pins),
				progressbar.OptionSetDescription("Importing pins"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		for start := 0; start < len(pins); start += importBatchSize {
			end := min(start+importBatchSize, len(pins))

			if err := repo.BulkInsert(pins[start:end]); err != nil {
				return fmt.Errorf("inserting pins: %w", err)
			}

			if bar != nil {
				_ = bar.Add(end - start)
			}
		}

		fmt.Printf("✅ Imported %s pins from %s\n", utils.FormatInt(int64(len(pins))), args[0])

		return nil
	},
}

var pinsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all pins to a JSON file",
	Long:  `Exports every stored pin to a local JSON file. Output is sorted by id to minimize diffs when checking into version control.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, repo, err := openPinDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pins, err := repo.AllSorted()
		if err != nil {
			return fmt.Errorf("getting pins: %w", err)
		}

		data, err := json.MarshalIndent(pins, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling pins: %w", err)
		}

		if err := os.WriteFile(pinsFile, data, 0o600); err != nil {
			return fmt.Errorf("writing pins file: %w", err)
		}

		fmt.Printf("✅ Exported %s pins to %s\n", utils.FormatInt(int64(len(pins))), pinsFile)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(pinsCmd)
	pinsCmd.AddCommand(pinsImportCmd)
	pinsCmd.AddCommand(pinsExportCmd)
}
