package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PUSHPAK-96/cartwise/internal/cli"
	"github.com/PUSHPAK-96/cartwise/internal/loader"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a transactions file as a named dataset",
		Long: `Load a transactions file and store it in the local dataset store so later
commands can analyze it with --dataset instead of re-reading the file.

Importing under an existing name replaces that dataset.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("name", "n", "", "Dataset name (default: file name without extension)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		base := filepath.Base(args[0])
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	txns, err := loader.LoadTransactionsFile(args[0])
	if err != nil {
		return err
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	d, err := store.SaveDataset(cmd.Context(), name, txns)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Imported %q: %d invoices, %d products, %d rows", d.Name, d.Invoices, d.Products, d.Rows)))
	return nil
}
