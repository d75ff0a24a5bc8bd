package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/landprice/pricing"
	"github.com/warp/landprice/store/sqlite"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the SQLite observation table with a CSV/XLSX dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		obs, err := pricing.LoadFile(path)
		if err != nil {
			return err
		}

		store, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return eris.Wrap(err, "open sqlite store")
		}
		defer store.Close()

		if err := store.ReplaceObservations(ctx, path, obs); err != nil {
			return eris.Wrap(err, "import observations")
		}

		zap.L().Info("import complete",
			zap.String("file", path),
			zap.String("db", cfg.Store.SQLitePath),
			zap.Int("observations", len(obs)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
