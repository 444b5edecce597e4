package pipeline

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PUSHPAK-96/cartwise/internal/cache"
	"github.com/PUSHPAK-96/cartwise/internal/model"
)

func groceries() []model.Transaction {
	baskets := [][]string{
		{"bread", "milk"},
		{"bread", "diapers", "beer", "eggs"},
		{"milk", "diapers", "beer", "cola"},
		{"bread", "milk", "diapers", "beer"},
		{"bread", "milk", "diapers", "cola"},
	}
	var txns []model.Transaction
	for i, items := range baskets {
		for _, p := range items {
			txns = append(txns, model.Transaction{InvoiceID: string(rune('1' + i)), Product: p})
		}
	}
	return txns
}

func balanced(t *testing.T) Params {
	t.Helper()
	p, err := Preset("")
	require.NoError(t, err)
	return p
}

func TestPreset(t *testing.T) {
	tests := []struct {
		name       string
		minSupport float64
		maxLen     int
	}{
		{"exploration", 0.02, 4},
		{"balanced", 0.05, 3},
		{"strict", 0.08, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Preset(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.minSupport, p.MinSupport)
			assert.Equal(t, tt.maxLen, p.MaxLen)
			assert.Equal(t, 5, p.TopN)
			assert.NoError(t, p.Validate())
		})
	}

	_, err := Preset("reckless")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, []string{"balanced", "exploration", "strict"}, PresetNames())
}

func TestParams_Validate(t *testing.T) {
	base := Params{MinSupport: 0.1, MinConfidence: 0.5, MinLift: 1, TopN: 5}
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero support", func(p *Params) { p.MinSupport = 0 }},
		{"support above one", func(p *Params) { p.MinSupport = 1.5 }},
		{"negative max len", func(p *Params) { p.MaxLen = -1 }},
		{"confidence above one", func(p *Params) { p.MinConfidence = 2 }},
		{"negative lift", func(p *Params) { p.MinLift = -0.1 }},
		{"negative top rules", func(p *Params) { p.TopRules = -1 }},
		{"zero top n", func(p *Params) { p.TopN = 0 }},
		{"unknown sort", func(p *Params) { p.SortBy = "zhang" }},
	}
	require.NoError(t, base.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}

func TestRun(t *testing.T) {
	result, err := Run(context.Background(), groceries(), balanced(t))
	require.NoError(t, err)

	assert.Equal(t, model.BasketStats{Invoices: 5, Products: 6, Rows: 18}, result.Stats)
	rows, cols := result.Matrix.Shape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 6, cols)
	assert.NotEmpty(t, result.Itemsets)
	assert.GreaterOrEqual(t, len(result.Rules), len(result.Filtered))
	assert.False(t, result.Cached)

	var found bool
	for _, r := range result.Filtered {
		assert.GreaterOrEqual(t, r.Confidence, 0.4)
		assert.GreaterOrEqual(t, r.Lift, 1.2)
		if r.AntecedentsStr == "beer" && r.ConsequentsStr == "diapers" {
			found = true
			assert.InDelta(t, 1.25, r.Lift, 1e-9)
		}
	}
	assert.True(t, found, "beer -> diapers should survive the balanced filter")
}

func TestRun_TopRulesCap(t *testing.T) {
	p := balanced(t)
	p.TopRules = 2
	result, err := Run(context.Background(), groceries(), p)
	require.NoError(t, err)
	assert.Len(t, result.Filtered, 2)
}

func TestRun_Empty(t *testing.T) {
	result, err := Run(context.Background(), []model.Transaction{}, balanced(t))
	require.NoError(t, err)

	assert.Equal(t, model.BasketStats{}, result.Stats)
	assert.Empty(t, result.Itemsets)
	assert.Empty(t, result.Rules)
	assert.NotNil(t, result.Filtered)
	assert.Empty(t, result.Filtered)
}

func TestRun_InvalidParams(t *testing.T) {
	_, err := Run(context.Background(), groceries(), Params{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestAnalyzer_Memoizes(t *testing.T) {
	mem := cache.NewMemory(time.Minute)
	defer mem.Close()

	a := NewAnalyzer(mem)
	p := balanced(t)

	first, err := a.Analyze(context.Background(), groceries(), p)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, mem.Len())

	second, err := a.Analyze(context.Background(), groceries(), p)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	require.Len(t, second.Rules, len(first.Rules))
	for i := range first.Rules {
		assert.Equal(t, first.Rules[i].Antecedents.Key(), second.Rules[i].Antecedents.Key())
		assert.Equal(t, first.Rules[i].Consequents.Key(), second.Rules[i].Consequents.Key())
		assert.InDelta(t, first.Rules[i].Lift, second.Rules[i].Lift, 1e-12)
		if math.IsInf(first.Rules[i].Conviction, 1) {
			assert.True(t, math.IsInf(second.Rules[i].Conviction, 1))
		}
	}
	assert.Len(t, second.Filtered, len(first.Filtered))

	// Display thresholds do not invalidate the memo.
	p.MinConfidence = 0.1
	third, err := a.Analyze(context.Background(), groceries(), p)
	require.NoError(t, err)
	assert.True(t, third.Cached)
	assert.GreaterOrEqual(t, len(third.Filtered), len(first.Filtered))

	// Mining thresholds do, including the lift rules are derived with.
	p.MinLift = 1.0
	fourth, err := a.Analyze(context.Background(), groceries(), p)
	require.NoError(t, err)
	assert.False(t, fourth.Cached)

	p.MinSupport = 0.4
	fifth, err := a.Analyze(context.Background(), groceries(), p)
	require.NoError(t, err)
	assert.False(t, fifth.Cached)
}

func TestAnalyzer_Progress(t *testing.T) {
	var levels []int
	a := NewAnalyzer(nil).WithProgress(func(level, _ int) {
		levels = append(levels, level)
	})
	_, err := a.Analyze(context.Background(), groceries(), balanced(t))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, levels)
}

// skewed has A->B at lift 19/12 and A->C at lift 19/15.
func skewed() []model.Transaction {
	var txns []model.Transaction
	add := func(n int, items ...string) {
		for range n {
			id := fmt.Sprintf("%03d", len(txns))
			for _, p := range items {
				txns = append(txns, model.Transaction{InvoiceID: id, Product: p})
			}
		}
	}
	add(8, "A", "B")
	add(4, "A", "C")
	add(1, "C")
	add(6, "X")
	return txns
}

func TestRun_DerivesRulesAtMinLift(t *testing.T) {
	p, err := Preset("strict")
	require.NoError(t, err)

	result, err := Run(context.Background(), skewed(), p)
	require.NoError(t, err)
	require.NotEmpty(t, result.Rules)
	for _, r := range result.Rules {
		assert.GreaterOrEqual(t, r.Lift, p.MinLift)
		assert.False(t, r.Consequents.Contains("C"), "A->C has lift 1.27")
	}

	recs, err := NewAnalyzer(nil).Recommend(context.Background(), skewed(), p, []string{"A"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "B", recs[0].Product)

	p.MinLift = 1.0
	recs, err = NewAnalyzer(nil).Recommend(context.Background(), skewed(), p, []string{"A"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "B", recs[0].Product)
	assert.Equal(t, "C", recs[1].Product)
}

func TestAnalyzer_Recommend(t *testing.T) {
	a := NewAnalyzer(nil)
	recs, err := a.Recommend(context.Background(), groceries(), balanced(t), []string{"beer"})
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	for _, r := range recs {
		assert.NotEqual(t, "beer", r.Product)
	}
	assert.Equal(t, "diapers", recs[0].Product)
}

func TestAnalyzer_RecommendEmptyBasket(t *testing.T) {
	_, err := NewAnalyzer(nil).Recommend(context.Background(), groceries(), balanced(t), nil)
	assert.Error(t, err)
}
