package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PUSHPAK-96/cartwise/internal/cli"
	"github.com/PUSHPAK-96/cartwise/internal/export"
	"github.com/PUSHPAK-96/cartwise/internal/recommend"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend [file] --basket A,B",
		Short: "Recommend add-on products for a basket",
		Long: `Score products that the mined rules associate with the given basket.

Each rule whose antecedents are all in the basket contributes
confidence x lift to every consequent not already in the basket.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRecommend,
	}

	addInputFlags(cmd)
	addMiningFlags(cmd)
	cmd.Flags().StringSliceP("basket", "b", nil, "Products already in the basket (comma-separated)")
	cmd.Flags().StringP("output", "o", "", "Write recommendations to a .csv file")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	basket, _ := cmd.Flags().GetStringSlice("basket")
	output, _ := cmd.Flags().GetString("output")

	if len(basket) == 0 {
		return recommend.ErrEmptyBasket
	}

	params, err := loadParams(cmd)
	if err != nil {
		return err
	}
	txns, err := loadTransactions(cmd, args)
	if err != nil {
		return err
	}

	analyzer, closeCache, err := newAnalyzer(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	recs, err := analyzer.Recommend(cmd.Context(), txns, params, basket)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := cli.RenderRecommendations(out, basket, recs); err != nil {
		return err
	}

	if output != "" {
		f, err := os.Create(output) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := export.WriteRecommendationsCSV(f, recs); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Saved recommendations to "+output))
	}
	return nil
}
