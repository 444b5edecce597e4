package main

import (
	"github.com/spf13/cobra"

	"github.com/PUSHPAK-96/cartwise/internal/cli"
	"github.com/PUSHPAK-96/cartwise/internal/loader"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Summarize a transactions file",
		Long: `Show invoice, product and row counts plus the most frequent products.

Accepts .csv, .tsv, .txt and .xlsx files with invoice and product columns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStats,
	}

	addInputFlags(cmd)
	cmd.Flags().Int("top", 10, "Number of top products to list")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	top, _ := cmd.Flags().GetInt("top")

	txns, err := loadTransactions(cmd, args)
	if err != nil {
		return err
	}

	return cli.RenderStats(cmd.OutOrStdout(), loader.Stats(txns), loader.TopProducts(txns, top))
}
