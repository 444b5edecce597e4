package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PUSHPAK-96/cartwise/internal/cli"
)

func datasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Manage stored datasets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored datasets",
		Args:  cobra.NoArgs,
		RunE:  runDatasetsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runDatasetsDelete,
	})

	return cmd
}

func runDatasetsList(cmd *cobra.Command, _ []string) error {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	datasets, err := store.ListDatasets(cmd.Context())
	if err != nil {
		return err
	}
	return cli.RenderDatasets(cmd.OutOrStdout(), datasets)
}

func runDatasetsDelete(cmd *cobra.Command, args []string) error {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteDataset(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted dataset %q", args[0])))
	return nil
}
