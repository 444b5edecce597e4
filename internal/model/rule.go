package model

import (
	"math"

	"github.com/goccy/go-json"
)

// Rule is an association rule antecedents -> consequents with its metrics.
type Rule struct {
	Antecedents       ItemSet `json:"antecedents"`
	Consequents       ItemSet `json:"consequents"`
	AntecedentSupport float64 `json:"antecedent_support"`
	ConsequentSupport float64 `json:"consequent_support"`
	Support           float64 `json:"support"`
	Confidence        float64 `json:"confidence"`
	Lift              float64 `json:"lift"`
	Leverage          float64 `json:"leverage"`
	Conviction        float64 `json:"conviction"`
}

// DisplayRule is a rule with its item sets rendered for tables and downloads.
type DisplayRule struct {
	AntecedentsStr string `json:"antecedents_str"`
	ConsequentsStr string `json:"consequents_str"`
	Rule
}

// ruleJSON mirrors Rule with an infinite conviction encoded as null.
type ruleJSON struct {
	Conviction        *float64 `json:"conviction"`
	Antecedents       ItemSet  `json:"antecedents"`
	Consequents       ItemSet  `json:"consequents"`
	AntecedentSupport float64  `json:"antecedent_support"`
	ConsequentSupport float64  `json:"consequent_support"`
	Support           float64  `json:"support"`
	Confidence        float64  `json:"confidence"`
	Lift              float64  `json:"lift"`
	Leverage          float64  `json:"leverage"`
}

func (r Rule) toJSON() ruleJSON {
	out := ruleJSON{
		Antecedents:       r.Antecedents,
		Consequents:       r.Consequents,
		AntecedentSupport: r.AntecedentSupport,
		ConsequentSupport: r.ConsequentSupport,
		Support:           r.Support,
		Confidence:        r.Confidence,
		Lift:              r.Lift,
		Leverage:          r.Leverage,
	}
	if !math.IsInf(r.Conviction, 0) && !math.IsNaN(r.Conviction) {
		c := r.Conviction
		out.Conviction = &c
	}
	return out
}

func (j ruleJSON) toRule() Rule {
	conviction := math.Inf(1)
	if j.Conviction != nil {
		conviction = *j.Conviction
	}
	return Rule{
		Antecedents:       j.Antecedents,
		Consequents:       j.Consequents,
		AntecedentSupport: j.AntecedentSupport,
		ConsequentSupport: j.ConsequentSupport,
		Support:           j.Support,
		Confidence:        j.Confidence,
		Lift:              j.Lift,
		Leverage:          j.Leverage,
		Conviction:        conviction,
	}
}

// MarshalJSON encodes an infinite conviction as null.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toJSON())
}

// UnmarshalJSON decodes a null conviction as +Inf.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var j ruleJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*r = j.toRule()
	return nil
}

type displayRuleJSON struct {
	AntecedentsStr string `json:"antecedents_str"`
	ConsequentsStr string `json:"consequents_str"`
	ruleJSON
}

// MarshalJSON flattens the display columns with the rule metrics.
func (d DisplayRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(displayRuleJSON{
		AntecedentsStr: d.AntecedentsStr,
		ConsequentsStr: d.ConsequentsStr,
		ruleJSON:       d.Rule.toJSON(),
	})
}

// UnmarshalJSON reverses MarshalJSON.
func (d *DisplayRule) UnmarshalJSON(data []byte) error {
	var j displayRuleJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	d.AntecedentsStr = j.AntecedentsStr
	d.ConsequentsStr = j.ConsequentsStr
	d.Rule = j.ruleJSON.toRule()
	return nil
}

// Recommendation is a suggested add-on product for a basket.
type Recommendation struct {
	Product    string  `json:"product"`
	Score      float64 `json:"score"`
	Support    float64 `json:"support"`
	Confidence float64 `json:"confidence"`
	Lift       float64 `json:"lift"`
}

// Metric names a numeric rule column.
type Metric string

// Rule metrics.
const (
	MetricSupport           Metric = "support"
	MetricConfidence        Metric = "confidence"
	MetricLift              Metric = "lift"
	MetricLeverage          Metric = "leverage"
	MetricConviction        Metric = "conviction"
	MetricAntecedentSupport Metric = "antecedent_support"
	MetricConsequentSupport Metric = "consequent_support"
)

// Value returns the rule's value for m and whether m is a known metric.
func (r Rule) Value(m Metric) (float64, bool) {
	switch m {
	case MetricSupport:
		return r.Support, true
	case MetricConfidence:
		return r.Confidence, true
	case MetricLift:
		return r.Lift, true
	case MetricLeverage:
		return r.Leverage, true
	case MetricConviction:
		return r.Conviction, true
	case MetricAntecedentSupport:
		return r.AntecedentSupport, true
	case MetricConsequentSupport:
		return r.ConsequentSupport, true
	default:
		return 0, false
	}
}
