package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/PUSHPAK-96/cartwise/internal/basket"
	"github.com/PUSHPAK-96/cartwise/internal/cache"
	"github.com/PUSHPAK-96/cartwise/internal/loader"
	"github.com/PUSHPAK-96/cartwise/internal/mining"
	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/recommend"
	"github.com/PUSHPAK-96/cartwise/internal/rules"
)

// Result is everything one analysis request produces.
type Result struct {
	Matrix      *basket.Matrix      `json:"-"`
	Fingerprint string              `json:"fingerprint"`
	Itemsets    []model.Itemset     `json:"itemsets"`
	Rules       []model.Rule        `json:"rules"`
	Filtered    []model.DisplayRule `json:"filtered"`
	Params      Params              `json:"params"`
	Stats       model.BasketStats   `json:"stats"`
	Cached      bool                `json:"cached"`
}

// mined is the memoized part of a result: everything before filtering.
type mined struct {
	Itemsets []model.Itemset `json:"itemsets"`
	Rules    []model.Rule    `json:"rules"`
}

// Analyzer runs the pipeline, memoizing mining output per dataset and
// mining parameters. Rules are derived with lift >= MinLift; MinConfidence and
// TopRules only shape the displayed table.
type Analyzer struct {
	cache    cache.Cache
	progress func(level, frequent int)
}

// NewAnalyzer creates an analyzer backed by c; nil disables memoization.
func NewAnalyzer(c cache.Cache) *Analyzer {
	if c == nil {
		c = cache.Nop{}
	}
	return &Analyzer{cache: c}
}

// WithProgress reports Apriori levels to fn.
func (a *Analyzer) WithProgress(fn func(level, frequent int)) *Analyzer {
	a.progress = fn
	return a
}

// Run is a one-shot analysis without memoization.
func Run(ctx context.Context, txns []model.Transaction, params Params) (*Result, error) {
	return NewAnalyzer(nil).Analyze(ctx, txns, params)
}

// Analyze encodes, mines, derives and filters. Empty input produces empty
// collections at every stage.
func (a *Analyzer) Analyze(ctx context.Context, txns []model.Transaction, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	fingerprint := model.Fingerprint(txns)
	matrix := basket.Encode(txns)
	m, cached, err := a.mine(ctx, fingerprint, matrix, params)
	if err != nil {
		return nil, err
	}

	filtered := rules.Top(rules.Filter(m.Rules, params.FilterOptions()), params.TopRules)

	return &Result{
		Matrix:      matrix,
		Fingerprint: fingerprint,
		Stats:       loader.Stats(txns),
		Itemsets:    m.Itemsets,
		Rules:       m.Rules,
		Filtered:    filtered,
		Params:      params,
		Cached:      cached,
	}, nil
}

// Recommend scores add-on products for basket against every mined rule, not
// just the confidence-filtered table.
func (a *Analyzer) Recommend(ctx context.Context, txns []model.Transaction, params Params, items []string) ([]model.Recommendation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	m, _, err := a.mine(ctx, model.Fingerprint(txns), basket.Encode(txns), params)
	if err != nil {
		return nil, err
	}

	return recommend.Recommend(m.Rules, model.NewItemSet(items...), params.TopN)
}

func (a *Analyzer) mine(ctx context.Context, fingerprint string, matrix *basket.Matrix, params Params) (*mined, bool, error) {
	key := cacheKey(fingerprint, params)

	if data, ok, err := a.cache.Get(ctx, key); err != nil {
		slog.Warn("Cache lookup failed", "error", err)
	} else if ok {
		var m mined
		if err := json.Unmarshal(data, &m); err == nil {
			slog.Debug("Reusing mined rules", "fingerprint", fingerprint[:12])
			return &m, true, nil
		}
		slog.Warn("Discarding undecodable cache entry", "key", key)
	}

	start := time.Now()

	itemsets, err := mining.MineItemsets(ctx, matrix, mining.Options{
		MinSupport: params.MinSupport,
		MaxLen:     params.MaxLen,
		Progress:   a.progress,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to mine itemsets: %w", err)
	}

	derived, err := mining.DeriveRules(itemsets, mining.DefaultMetric, params.MinLift)
	if err != nil {
		return nil, false, fmt.Errorf("failed to derive rules: %w", err)
	}

	rows, cols := matrix.Shape()
	slog.Info("Mined association rules",
		"invoices", rows,
		"products", cols,
		"itemsets", len(itemsets),
		"rules", len(derived),
		"duration", time.Since(start).Round(time.Millisecond))

	m := &mined{Itemsets: itemsets, Rules: derived}
	if data, err := json.Marshal(m); err != nil {
		slog.Warn("Failed to encode mined rules for cache", "error", err)
	} else if err := a.cache.Set(ctx, key, data); err != nil {
		slog.Warn("Cache store failed", "error", err)
	}

	return m, false, nil
}

// cacheKey covers the parameters mining depends on: support, length and the
// lift threshold rules are derived with.
func cacheKey(fingerprint string, p Params) string {
	return fmt.Sprintf("rules:%s:%g:%d:%g", fingerprint, p.MinSupport, p.MaxLen, p.MinLift)
}
