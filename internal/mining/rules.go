package mining

import (
	"fmt"
	"math"
	"sort"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// DefaultMetric is the metric rules are thresholded on; DefaultThreshold keeps
// rules with a positive association.
const (
	DefaultMetric    = model.MetricLift
	DefaultThreshold = 1.0
)

// ParseMetric validates a metric name usable as a rule threshold.
func ParseMetric(name string) (model.Metric, error) {
	m := model.Metric(name)
	switch m {
	case model.MetricSupport, model.MetricConfidence, model.MetricLift,
		model.MetricLeverage, model.MetricConviction:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

// DeriveRules splits every frequent itemset of two or more items into each
// antecedent/consequent partition and keeps rules whose metric reaches
// minThreshold. Rules are sorted by (metric, confidence, support) descending.
func DeriveRules(itemsets []model.Itemset, metric model.Metric, minThreshold float64) ([]model.Rule, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}

	supports := make(map[string]float64, len(itemsets))
	for _, is := range itemsets {
		supports[is.Items.Key()] = is.Support
	}

	rules := make([]model.Rule, 0)
	for _, is := range itemsets {
		items := is.Items.Items()
		if len(items) < 2 {
			continue
		}

		// Largest antecedents first, then lexical combinations within a size.
		for size := len(items) - 1; size >= 1; size-- {
			var err error
			combinations(len(items), size, func(picked []int) bool {
				inAntecedent := make(map[int]bool, len(picked))
				ante := make([]string, 0, size)
				for _, p := range picked {
					inAntecedent[p] = true
					ante = append(ante, items[p])
				}
				cons := make([]string, 0, len(items)-size)
				for i, item := range items {
					if !inAntecedent[i] {
						cons = append(cons, item)
					}
				}

				antecedents := model.NewItemSet(ante...)
				consequents := model.NewItemSet(cons...)
				sA, okA := supports[antecedents.Key()]
				sC, okC := supports[consequents.Key()]
				if !okA || !okC {
					err = fmt.Errorf("%w: %s -> %s", ErrIncompleteItemsets, antecedents, consequents)
					return false
				}

				rule := newRule(antecedents, consequents, sA, sC, is.Support)
				if v, _ := rule.Value(metric); v >= minThreshold {
					rules = append(rules, rule)
				}
				return true
			})
			if err != nil {
				return nil, err
			}
		}
	}

	SortRules(rules, metric)
	return rules, nil
}

// SortRules orders rules by (metric, confidence, support) descending, stably.
func SortRules(rules []model.Rule, metric model.Metric) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, _ := rules[i].Value(metric)
		b, _ := rules[j].Value(metric)
		if a != b {
			return a > b
		}
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		return rules[i].Support > rules[j].Support
	})
}

func newRule(antecedents, consequents model.ItemSet, sA, sC, sAC float64) model.Rule {
	confidence := sAC / sA
	lift := confidence / sC
	leverage := sAC - sA*sC

	conviction := math.Inf(1)
	if confidence < 1 {
		conviction = (1 - sC) / (1 - confidence)
	}

	return model.Rule{
		Antecedents:       antecedents,
		Consequents:       consequents,
		AntecedentSupport: sA,
		ConsequentSupport: sC,
		Support:           sAC,
		Confidence:        confidence,
		Lift:              lift,
		Leverage:          leverage,
		Conviction:        conviction,
	}
}

// combinations calls fn with each k-subset of 0..n-1 in lexical order
// until fn returns false.
func combinations(n, k int, fn func([]int) bool) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if !fn(idx) {
			return
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
