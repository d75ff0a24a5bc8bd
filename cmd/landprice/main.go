/*
main.go - Application entry point

PURPOSE:
  The landprice command serves and queries the land price estimator.

STARTUP SEQUENCE (every command):
  1. Load config (config.yaml, LANDPRICE_* environment)
  2. Initialize the zap logger
  3. Run the subcommand

COMMANDS:
  serve                          Build the index and serve the HTTP API
  estimate <district> <locality> Print one estimate
  districts                      Print the known districts
  import <file>                  Load a CSV/XLSX dataset into SQLite

EXAMPLES:
  # Serve straight from a spreadsheet export
  LANDPRICE_DATASET_PATH=./data/land_prices.csv landprice serve

  # Import once, then serve from SQLite
  landprice import ./data/land_prices.xlsx
  LANDPRICE_DATASET_SOURCE=sqlite landprice serve --port 3000
*/
package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/landprice/config"
	"github.com/warp/landprice/pricing"
	"github.com/warp/landprice/store/sqlite"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "landprice",
	Short:        "Land price estimator for the land registry",
	Long:         "Estimates price per cent and total price for a district and locality from historical sale observations, tolerating misspelled localities.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openSource returns the configured observation source and a function
// releasing it.
func openSource(c *config.Config) (pricing.Source, func(), error) {
	switch c.Dataset.Source {
	case config.SourceSQLite:
		store, err := sqlite.New(c.Store.SQLitePath)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open sqlite store")
		}
		return store, func() { store.Close() }, nil
	default:
		return pricing.FileSource{Path: c.Dataset.Path}, func() {}, nil
	}
}

// buildIndex loads the configured dataset. Failure here is fatal for every command.
func buildIndex(ctx context.Context, c *config.Config) (*pricing.Index, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	src, release, err := openSource(c)
	if err != nil {
		return nil, err
	}
	defer release()

	return pricing.Load(ctx, src)
}
