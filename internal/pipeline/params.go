// Package pipeline runs the basket analysis from transactions to rules and
// recommendations as a pure function of (data, params).
package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/recommend"
	"github.com/PUSHPAK-96/cartwise/internal/rules"
)

// Parameter errors.
var (
	ErrInvalidParams = errors.New("invalid analysis parameters")
	ErrUnknownPreset = errors.New("unknown preset")
)

// DefaultPreset is used when no preset is named.
const DefaultPreset = "balanced"

// DefaultTopRules caps the filtered rule table.
const DefaultTopRules = 50

// Params are the caller-supplied analysis knobs.
type Params struct {
	SortBy        model.Metric `json:"sort_by" mapstructure:"sort_by"`
	MinSupport    float64      `json:"min_support" mapstructure:"min_support"`
	MinConfidence float64      `json:"min_confidence" mapstructure:"min_confidence"`
	MinLift       float64      `json:"min_lift" mapstructure:"min_lift"`
	MaxLen        int          `json:"max_len" mapstructure:"max_len"`
	TopRules      int          `json:"top_rules" mapstructure:"top_rules"`
	TopN          int          `json:"top_n" mapstructure:"top_n"`
}

// Presets mirror the dashboard's exploration/balanced/strict choices.
var Presets = map[string]Params{
	"exploration": {MinSupport: 0.02, MinConfidence: 0.25, MinLift: 1.05, MaxLen: 4},
	"balanced":    {MinSupport: 0.05, MinConfidence: 0.4, MinLift: 1.2, MaxLen: 3},
	"strict":      {MinSupport: 0.08, MinConfidence: 0.6, MinLift: 1.5, MaxLen: 3},
}

// Preset returns the named preset with display defaults filled in.
func Preset(name string) (Params, error) {
	if name == "" {
		name = DefaultPreset
	}
	p, ok := Presets[name]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q (choose from %v)", ErrUnknownPreset, name, PresetNames())
	}
	p.SortBy = rules.DefaultSortBy
	p.TopRules = DefaultTopRules
	p.TopN = recommend.DefaultTopN
	return p, nil
}

// PresetNames lists presets alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every knob's range.
func (p Params) Validate() error {
	switch {
	case p.MinSupport <= 0 || p.MinSupport > 1:
		return fmt.Errorf("%w: min_support must be in (0, 1], got %v", ErrInvalidParams, p.MinSupport)
	case p.MaxLen < 0:
		return fmt.Errorf("%w: max_len cannot be negative, got %d", ErrInvalidParams, p.MaxLen)
	case p.MinConfidence < 0 || p.MinConfidence > 1:
		return fmt.Errorf("%w: min_confidence must be in [0, 1], got %v", ErrInvalidParams, p.MinConfidence)
	case p.MinLift < 0:
		return fmt.Errorf("%w: min_lift cannot be negative, got %v", ErrInvalidParams, p.MinLift)
	case p.TopRules < 0:
		return fmt.Errorf("%w: top_rules cannot be negative, got %d", ErrInvalidParams, p.TopRules)
	case p.TopN <= 0:
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidParams, p.TopN)
	}
	if _, ok := (model.Rule{}).Value(p.SortBy); !ok && p.SortBy != "" {
		return fmt.Errorf("%w: unknown sort_by %q", ErrInvalidParams, p.SortBy)
	}
	return nil
}

// FilterOptions converts the thresholds for the rule filter.
func (p Params) FilterOptions() rules.Options {
	return rules.Options{
		MinConfidence: p.MinConfidence,
		MinLift:       p.MinLift,
		SortBy:        p.SortBy,
	}
}
