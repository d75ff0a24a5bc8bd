package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/warp/landprice/api"
	"github.com/warp/landprice/config"
	"github.com/warp/landprice/pricing"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <district> <locality>",
	Short: "Estimate the land price for a locality",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], args[1])
	},
}

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "List the districts in the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		idx, err := buildIndex(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		for _, d := range idx.Districts() {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

func runEstimate(ctx context.Context, w io.Writer, c *config.Config, district, locality string) error {
	if api.MissingInput(district, locality) {
		fmt.Fprintln(w, api.MissingInputMessage)
		return nil
	}

	idx, err := buildIndex(ctx, c)
	if err != nil {
		return err
	}
	printEstimate(w, district, locality, idx.Estimate(district, locality))
	return nil
}

func printEstimate(w io.Writer, district, locality string, res pricing.Result) {
	dto, ok := api.NewEstimateDTO(district, locality, res)
	if !ok {
		fmt.Fprintln(w, api.NotFoundMessage)
		return
	}

	fmt.Fprintf(w, "District:    %s\n", dto.District)
	fmt.Fprintf(w, "Locality:    %s\n", dto.Locality)
	fmt.Fprintf(w, "Per cent:    %s\n", dto.PerCentDisplay)
	fmt.Fprintf(w, "Total price: %s\n", dto.TotalPriceDisplay)
	if dto.Warning != "" {
		fmt.Fprintf(w, "Warning:     %s\n", dto.Warning)
	}
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(districtsCmd)
}
