// Package mining finds frequent itemsets and derives association rules.
package mining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/PUSHPAK-96/cartwise/internal/basket"
	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Mining errors.
var (
	ErrInvalidSupport     = errors.New("min support must be in (0, 1]")
	ErrInvalidMaxLen      = errors.New("max itemset length cannot be negative")
	ErrUnknownMetric      = errors.New("unknown rule metric")
	ErrIncompleteItemsets = errors.New("itemsets are missing a subset support")
)

// Options configures itemset mining.
type Options struct {
	// Progress, when set, is called after each level is counted.
	Progress   func(level, frequent int)
	MinSupport float64
	// MaxLen caps itemset size; zero means unbounded.
	MaxLen int
}

// MineItemsets runs level-wise Apriori over the matrix. Results are ordered
// by descending support; ties keep level then lexical order.
func MineItemsets(ctx context.Context, m *basket.Matrix, opts Options) ([]model.Itemset, error) {
	if opts.MinSupport <= 0 || opts.MinSupport > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSupport, opts.MinSupport)
	}
	if opts.MaxLen < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxLen, opts.MaxLen)
	}

	rows, cols := m.Shape()
	result := make([]model.Itemset, 0)
	if rows == 0 {
		return result, nil
	}

	frequent := make([][]int, 0)
	for j := 0; j < cols; j++ {
		if m.ColumnSupport(j) >= opts.MinSupport {
			frequent = append(frequent, []int{j})
			result = append(result, toItemset(m, []int{j}, m.ColumnSupport(j)))
		}
	}
	report(opts, 1, len(frequent))

	for level := 2; len(frequent) > 1 && (opts.MaxLen == 0 || level <= opts.MaxLen); level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates := generateCandidates(frequent)
		if len(candidates) == 0 {
			break
		}

		counts := make([]int, len(candidates))
		for i := 0; i < rows; i++ {
			b := m.Basket(i)
			if len(b) < level {
				continue
			}
			for c, cand := range candidates {
				if basket.ContainsAll(b, cand) {
					counts[c]++
				}
			}
		}

		next := make([][]int, 0)
		for c, cand := range candidates {
			support := float64(counts[c]) / float64(rows)
			if support >= opts.MinSupport {
				next = append(next, cand)
				result = append(result, toItemset(m, cand, support))
			}
		}

		slog.Debug("Apriori level counted",
			"level", level,
			"candidates", len(candidates),
			"frequent", len(next))
		report(opts, level, len(next))
		frequent = next
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Support > result[j].Support
	})
	return result, nil
}

func report(opts Options, level, frequent int) {
	if opts.Progress != nil {
		opts.Progress(level, frequent)
	}
}

// generateCandidates joins frequent (k-1)-sets sharing a k-2 prefix and
// prunes any candidate with an infrequent (k-1)-subset.
func generateCandidates(frequent [][]int) [][]int {
	known := make(map[string]struct{}, len(frequent))
	for _, f := range frequent {
		known[intsKey(f)] = struct{}{}
	}

	var out [][]int
	for a := 0; a < len(frequent); a++ {
		for b := a + 1; b < len(frequent); b++ {
			left, right := frequent[a], frequent[b]
			if !samePrefix(left, right) {
				// frequent is lexically ordered, so no later b can match.
				break
			}
			cand := make([]int, len(left)+1)
			copy(cand, left)
			cand[len(left)] = right[len(right)-1]
			if allSubsetsFrequent(cand, known) {
				out = append(out, cand)
			}
		}
	}
	return out
}

func samePrefix(a, b []int) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return a[len(a)-1] < b[len(b)-1]
}

func allSubsetsFrequent(cand []int, known map[string]struct{}) bool {
	sub := make([]int, 0, len(cand)-1)
	for skip := range cand {
		sub = sub[:0]
		for i, v := range cand {
			if i != skip {
				sub = append(sub, v)
			}
		}
		if _, ok := known[intsKey(sub)]; !ok {
			return false
		}
	}
	return true
}

func intsKey(ids []int) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", id)
	}
	return sb.String()
}

func toItemset(m *basket.Matrix, cols []int, support float64) model.Itemset {
	names := make([]string, len(cols))
	for i, j := range cols {
		names[i] = m.Column(j)
	}
	return model.Itemset{Items: model.NewItemSet(names...), Support: support}
}
