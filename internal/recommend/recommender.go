// Package recommend suggests add-on products for a basket from association rules.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// DefaultTopN is the number of recommendations returned when unspecified.
const DefaultTopN = 5

// Recommender errors.
var (
	ErrEmptyBasket = errors.New("basket must contain at least one product")
	ErrInvalidTopN = errors.New("top n must be positive")
)

// candidate accumulates evidence for one consequent product.
type candidate struct {
	product    string
	score      float64
	support    float64
	confidence float64
	lift       float64
}

// Recommend scores products implied by rules whose antecedents are all in
// the basket. Each rule contributes confidence*lift to every consequent the
// basket does not already hold; scores are summed per product while support,
// confidence and lift report the strongest single rule. Pass the unfiltered
// rule set to maximise recall.
func Recommend(rules []model.Rule, basket model.ItemSet, topN int) ([]model.Recommendation, error) {
	if basket.Empty() {
		return nil, ErrEmptyBasket
	}
	if topN <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopN, topN)
	}

	byProduct := make(map[string]*candidate)
	order := make([]*candidate, 0)

	for _, r := range rules {
		if !r.Antecedents.IsSubsetOf(basket) {
			continue
		}
		score := r.Confidence * r.Lift
		for _, product := range r.Consequents.Items() {
			if basket.Contains(product) {
				continue
			}
			c, ok := byProduct[product]
			if !ok {
				c = &candidate{
					product:    product,
					support:    r.Support,
					confidence: r.Confidence,
					lift:       r.Lift,
				}
				byProduct[product] = c
				order = append(order, c)
			}
			c.score += score
			c.support = max(c.support, r.Support)
			c.confidence = max(c.confidence, r.Confidence)
			c.lift = max(c.lift, r.Lift)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})
	if len(order) > topN {
		order = order[:topN]
	}

	out := make([]model.Recommendation, len(order))
	for i, c := range order {
		out[i] = model.Recommendation{
			Product:    c.product,
			Score:      c.score,
			Support:    c.support,
			Confidence: c.confidence,
			Lift:       c.lift,
		}
	}
	return out, nil
}
