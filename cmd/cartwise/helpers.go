package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/PUSHPAK-96/cartwise/internal/cache"
	"github.com/PUSHPAK-96/cartwise/internal/common"
	"github.com/PUSHPAK-96/cartwise/internal/config"
	"github.com/PUSHPAK-96/cartwise/internal/loader"
	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/pipeline"
	"github.com/PUSHPAK-96/cartwise/internal/storage"
)

var errNoInput = errors.New("provide a transactions file or --dataset")

// initStorage opens and migrates the dataset store.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// addInputFlags registers the stored-dataset alternative to a file argument.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("dataset", "", "Analyze a dataset previously stored with 'cartwise import'")
}

// loadTransactions reads the file argument or the --dataset flag.
func loadTransactions(cmd *cobra.Command, args []string) ([]model.Transaction, error) {
	name, _ := cmd.Flags().GetString("dataset")
	switch {
	case name != "" && len(args) > 0:
		return nil, fmt.Errorf("%w, not both", errNoInput)
	case name != "":
		store, err := initStorage(cmd.Context())
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		txns, err := store.GetDataset(cmd.Context(), name)
		if errors.Is(err, storage.ErrDatasetNotFound) {
			return nil, common.NewUserError(
				fmt.Sprintf("No dataset named %q. Run 'cartwise datasets list' to see imported datasets.", name), err)
		}
		return txns, err
	case len(args) == 1:
		return loader.LoadTransactionsFile(args[0])
	default:
		return nil, errNoInput
	}
}

// addMiningFlags registers threshold flags; they are bound to viper when
// the command runs so each command owns its own flag set.
func addMiningFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("preset", pipeline.DefaultPreset, fmt.Sprintf("Threshold preset %v", pipeline.PresetNames()))
	f.Float64("min-support", 0, "Minimum itemset support (overrides preset)")
	f.Int("max-len", 0, "Maximum itemset size, 0 for unbounded (overrides preset)")
	f.Float64("min-confidence", 0, "Minimum rule confidence (overrides preset)")
	f.Float64("min-lift", 0, "Minimum rule lift (overrides preset)")
	f.String("sort-by", "", "Rule metric to sort by (support, confidence, lift, leverage, conviction)")
	f.Int("top-rules", pipeline.DefaultTopRules, "Maximum number of rules shown")
	f.Int("top-n", 0, "Number of recommendations (overrides preset)")
}

var miningFlagKeys = map[string]string{
	"preset":         config.KeyMiningPreset,
	"min-support":    config.KeyMinSupport,
	"max-len":        config.KeyMaxLen,
	"min-confidence": config.KeyMinConfidence,
	"min-lift":       config.KeyMinLift,
	"sort-by":        config.KeySortBy,
	"top-rules":      config.KeyTopRules,
	"top-n":          config.KeyTopN,
}

// loadParams binds the command's mining flags and resolves parameters.
func loadParams(cmd *cobra.Command) (pipeline.Params, error) {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := miningFlagKeys[f.Name]; ok && bindErr == nil {
			bindErr = viper.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return pipeline.Params{}, fmt.Errorf("failed to bind flags: %w", bindErr)
	}
	return config.LoadParams(viper.GetViper())
}

// newAnalyzer builds an analyzer with the configured cache. The returned
// close function releases the cache.
func newAnalyzer(ctx context.Context) (*pipeline.Analyzer, func(), error) {
	c, err := cache.New(ctx, config.LoadCacheConfig(viper.GetViper()))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := c.Close(); err != nil {
			slog.Warn("Failed to close cache", "error", err)
		}
	}
	return pipeline.NewAnalyzer(c), closeFn, nil
}
