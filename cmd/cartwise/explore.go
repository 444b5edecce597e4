package main

import (
	"github.com/spf13/cobra"

	"github.com/PUSHPAK-96/cartwise/internal/loader"
	"github.com/PUSHPAK-96/cartwise/internal/tui"
	"github.com/PUSHPAK-96/cartwise/internal/tui/themes"
)

func exploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Build baskets interactively and watch recommendations",
		Long: `Open a terminal UI listing every product. Toggle products into a basket
and the recommendation table updates from the mined rules.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExplore,
	}

	addInputFlags(cmd)
	addMiningFlags(cmd)
	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin)")

	return cmd
}

func runExplore(cmd *cobra.Command, args []string) error {
	theme, _ := cmd.Flags().GetString("theme")

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

	res, err := analyzer.Analyze(cmd.Context(), txns, params)
	if err != nil {
		return err
	}

	cfg := tui.NewConfig(res.Rules, loader.TopProducts(txns, -1),
		tui.WithTheme(themes.GetTheme(theme)),
		tui.WithTopN(params.TopN))
	return tui.Run(cmd.Context(), cfg)
}
