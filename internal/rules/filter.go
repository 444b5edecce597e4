// Package rules filters association rules for display and download.
package rules

import (
	"sort"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Default filter thresholds.
const (
	DefaultMinConfidence = 0.3
	DefaultMinLift       = 1.0
	DefaultSortBy        = model.MetricLift
)

// Separator joins product names in display columns.
const Separator = ", "

// Options holds the rule-acceptance thresholds.
type Options struct {
	SortBy        model.Metric
	MinConfidence float64
	MinLift       float64
}

// DefaultOptions returns the thresholds used when none are configured.
func DefaultOptions() Options {
	return Options{
		MinConfidence: DefaultMinConfidence,
		MinLift:       DefaultMinLift,
		SortBy:        DefaultSortBy,
	}
}

// Filter keeps rules with confidence >= MinConfidence and lift >= MinLift,
// stable-sorts them descending by SortBy and renders the display columns.
// An unknown SortBy leaves the incoming order untouched.
func Filter(in []model.Rule, opts Options) []model.DisplayRule {
	if opts.SortBy == "" {
		opts.SortBy = DefaultSortBy
	}

	out := make([]model.DisplayRule, 0, len(in))
	for _, r := range in {
		if r.Confidence >= opts.MinConfidence && r.Lift >= opts.MinLift {
			out = append(out, Display(r))
		}
	}

	if _, ok := (model.Rule{}).Value(opts.SortBy); ok {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := out[i].Value(opts.SortBy)
			b, _ := out[j].Value(opts.SortBy)
			return a > b
		})
	}

	return out
}

// Display renders a rule's item sets as comma-separated strings.
func Display(r model.Rule) model.DisplayRule {
	return model.DisplayRule{
		AntecedentsStr: r.Antecedents.Join(Separator),
		ConsequentsStr: r.Consequents.Join(Separator),
		Rule:           r,
	}
}

// Rules strips the display columns.
func Rules(display []model.DisplayRule) []model.Rule {
	out := make([]model.Rule, len(display))
	for i, d := range display {
		out[i] = d.Rule
	}
	return out
}

// Top returns at most n rules; n <= 0 returns all.
func Top(display []model.DisplayRule, n int) []model.DisplayRule {
	if n <= 0 || n >= len(display) {
		return display
	}
	return display[:n]
}

// Columns is the column order of rule tables and downloads.
func Columns() []string {
	return []string{
		"antecedents_str",
		"consequents_str",
		string(model.MetricSupport),
		string(model.MetricConfidence),
		string(model.MetricLift),
		string(model.MetricLeverage),
		string(model.MetricConviction),
		string(model.MetricAntecedentSupport),
		string(model.MetricConsequentSupport),
	}
}
