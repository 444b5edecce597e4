package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PUSHPAK-96/cartwise/internal/cli"
	"github.com/PUSHPAK-96/cartwise/internal/config"
	"github.com/PUSHPAK-96/cartwise/internal/export"
	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/sheets"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [file]",
		Short: "Mine association rules",
		Long: `Mine frequent itemsets with Apriori, derive association rules and show
the strongest ones.

Thresholds come from a preset (exploration, balanced, strict) and may be
overridden individually. Results can be saved as CSV or XLSX, or published
to Google Sheets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRules,
	}

	addInputFlags(cmd)
	addMiningFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Write rules to a .csv or .xlsx file")
	cmd.Flags().Bool("sheets", false, "Publish rules to Google Sheets (uses sheets.* config)")
	cmd.Flags().Bool("no-progress", false, "Hide the mining progress bar")

	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	publish, _ := cmd.Flags().GetBool("sheets")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	params, err := loadParams(cmd)
	if err != nil {
		return err
	}
	txns, err := loadTransactions(cmd, args)
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Mining")
	defer interrupts.Stop()

	analyzer, closeCache, err := newAnalyzer(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	var progress *cli.MiningProgress
	if !noProgress {
		progress = cli.NewMiningProgress(cmd.ErrOrStderr(), params.MaxLen)
		analyzer.WithProgress(progress.Report)
	}

	res, err := analyzer.Analyze(ctx, txns, params)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Association rules (%d of %d)", len(res.Filtered), len(res.Rules))))
	if err := cli.RenderRules(out, res.Filtered); err != nil {
		return err
	}

	if output != "" {
		if err := writeRules(output, res.Filtered); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Saved rules to "+output))
	}

	if publish {
		id, err := publishRules(ctx, res.Filtered)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Published rules to https://docs.google.com/spreadsheets/d/"+id))
	}

	return nil
}

func writeRules(path string, display []model.DisplayRule) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return export.WriteRulesXLSX(path, display)
	case ".csv":
		f, err := os.Create(path) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := export.WriteRulesCSV(f, display); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported output format %q: use .csv or .xlsx", filepath.Ext(path))
	}
}

func publishRules(ctx context.Context, display []model.DisplayRule) (string, error) {
	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return "", err
	}

	writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
	if err != nil {
		return "", fmt.Errorf("failed to create sheets writer: %w", err)
	}

	return writer.WriteRules(ctx, display)
}
