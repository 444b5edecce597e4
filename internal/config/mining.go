package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/pipeline"
)

// Mining keys. Any key that is set overrides the selected preset.
const (
	KeyMinSupport    = "mining.min_support"
	KeyMaxLen        = "mining.max_len"
	KeyMinConfidence = "mining.min_confidence"
	KeyMinLift       = "mining.min_lift"
	KeySortBy        = "mining.sort_by"
	KeyTopRules      = "mining.top_rules"
	KeyTopN          = "mining.top_n"
)

// LoadParams resolves analysis parameters: the mining.preset values first,
// then any explicitly set mining.* key.
func LoadParams(v *viper.Viper) (pipeline.Params, error) {
	params, err := pipeline.Preset(v.GetString(KeyMiningPreset))
	if err != nil {
		return pipeline.Params{}, err
	}

	if v.IsSet(KeyMinSupport) {
		params.MinSupport = v.GetFloat64(KeyMinSupport)
	}
	if v.IsSet(KeyMaxLen) {
		params.MaxLen = v.GetInt(KeyMaxLen)
	}
	if v.IsSet(KeyMinConfidence) {
		params.MinConfidence = v.GetFloat64(KeyMinConfidence)
	}
	if v.IsSet(KeyMinLift) {
		params.MinLift = v.GetFloat64(KeyMinLift)
	}
	if v.IsSet(KeySortBy) {
		params.SortBy = model.Metric(v.GetString(KeySortBy))
	}
	if v.IsSet(KeyTopRules) {
		params.TopRules = v.GetInt(KeyTopRules)
	}
	if v.IsSet(KeyTopN) {
		params.TopN = v.GetInt(KeyTopN)
	}

	if err := params.Validate(); err != nil {
		return pipeline.Params{}, fmt.Errorf("invalid mining configuration: %w", err)
	}
	return params, nil
}
