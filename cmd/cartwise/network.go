package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PUSHPAK-96/cartwise/internal/cli"
	"github.com/PUSHPAK-96/cartwise/internal/network"
)

func networkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network [file]",
		Short: "Export the product rule graph as Graphviz DOT",
		Long: `Build a directed product graph from the strongest mined rules. Every
antecedent item gets an edge to every consequent item, weighted by lift.

Render with Graphviz, e.g. cartwise network data.csv | dot -Tsvg > rules.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNetwork,
	}

	addInputFlags(cmd)
	addMiningFlags(cmd)
	cmd.Flags().Int("top-k", network.DefaultTopK, "Number of rules drawn")
	cmd.Flags().StringP("output", "o", "", "Write DOT to a file instead of stdout")

	return cmd
}

func runNetwork(cmd *cobra.Command, args []string) error {
	topK, _ := cmd.Flags().GetInt("top-k")
	output, _ := cmd.Flags().GetString("output")

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

	g := network.Build(res.Rules, topK)
	if g.Empty() {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("No rules to draw with these thresholds."))
	}

	if output == "" {
		return g.WriteDOT(cmd.OutOrStdout())
	}

	f, err := os.Create(output) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := g.WriteDOT(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %d nodes and %d edges to %s",
		len(g.Nodes()), len(g.Edges()), output)))
	return nil
}
