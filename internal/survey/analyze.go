package survey

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Pagination errors.
var ErrInvalidPage = errors.New("invalid page")

// DefaultPageSize matches the dashboard's default rows per page.
const DefaultPageSize = 50

// FilterOptions narrows enriched responses. Zero values disable a filter.
type FilterOptions struct {
	// MinRating drops responses rated below it; unrated responses count as -1.
	MinRating *float64
	ScoreMin  *float64
	ScoreMax  *float64
	Search    string
	Segments  []string
}

// Filter applies opts, preserving order.
func Filter(responses []model.SurveyResponse, opts FilterOptions) []model.SurveyResponse {
	segments := make(map[string]bool, len(opts.Segments))
	for _, s := range opts.Segments {
		segments[s] = true
	}
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]model.SurveyResponse, 0, len(responses))
	for _, r := range responses {
		if len(segments) > 0 && !segments[r.Segment] {
			continue
		}
		if opts.MinRating != nil {
			rating := -1.0
			if r.Rating != nil {
				rating = *r.Rating
			}
			if rating < *opts.MinRating {
				continue
			}
		}
		if opts.ScoreMin != nil && r.SentimentScore < *opts.ScoreMin {
			continue
		}
		if opts.ScoreMax != nil && r.SentimentScore > *opts.ScoreMax {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.FreeText), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Negatives keeps only negative responses.
func Negatives(responses []model.SurveyResponse) []model.SurveyResponse {
	out := make([]model.SurveyResponse, 0)
	for _, r := range responses {
		if r.Sentiment == model.SentimentNegative {
			out = append(out, r)
		}
	}
	return out
}

// Paginate returns the zero-based page of rows and the total row count.
// Pages past the end are empty.
func Paginate(rows []model.SurveyResponse, pageSize, page int) ([]model.SurveyResponse, int, error) {
	if pageSize <= 0 {
		return nil, 0, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidPage, pageSize)
	}
	if page < 0 {
		return nil, 0, fmt.Errorf("%w: page cannot be negative, got %d", ErrInvalidPage, page)
	}

	start := page * pageSize
	if start >= len(rows) {
		return []model.SurveyResponse{}, len(rows), nil
	}
	end := min(start+pageSize, len(rows))
	return rows[start:end], len(rows), nil
}

// Segments lists the distinct non-empty segments, sorted.
func Segments(responses []model.SurveyResponse) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range responses {
		if r.Segment != "" && !seen[r.Segment] {
			seen[r.Segment] = true
			out = append(out, r.Segment)
		}
	}
	sort.Strings(out)
	return out
}

// ShareEntry is one sentiment's share of responses.
type ShareEntry struct {
	Sentiment model.Sentiment `json:"sentiment"`
	Percent   float64         `json:"proportion"`
	Count     int             `json:"count"`
}

// Share returns each present sentiment's share in percent, rounded to one
// decimal, most frequent first.
func Share(responses []model.SurveyResponse) []ShareEntry {
	counts := make(map[model.Sentiment]int)
	for _, r := range responses {
		counts[r.Sentiment]++
	}

	out := make([]ShareEntry, 0, len(counts))
	for _, s := range []model.Sentiment{model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative} {
		if c := counts[s]; c > 0 {
			out = append(out, ShareEntry{
				Sentiment: s,
				Count:     c,
				Percent:   math.Round(float64(c)*1000/float64(len(responses))) / 10,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Summary describes a score distribution. Std is the sample deviation;
// everything is zero for an empty input.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"25%"`
	Median float64 `json:"50%"`
	Q3     float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// Describe summarises scores.
func Describe(scores []float64) Summary {
	if len(scores) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	mean := sum / float64(len(sorted))

	var std float64
	if len(sorted) > 1 {
		var ss float64
		for _, s := range sorted {
			ss += (s - mean) * (s - mean)
		}
		std = math.Sqrt(ss / float64(len(sorted)-1))
	}

	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// quantile interpolates linearly between closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// Scores extracts sentiment scores.
func Scores(responses []model.SurveyResponse) []float64 {
	out := make([]float64, len(responses))
	for i, r := range responses {
		out[i] = r.SentimentScore
	}
	return out
}

// Texts extracts cleaned free text.
func Texts(responses []model.SurveyResponse) []string {
	out := make([]string, len(responses))
	for i, r := range responses {
		out[i] = r.FreeText
	}
	return out
}

// SegmentMean is the average sentiment of one segment.
type SegmentMean struct {
	Segment string  `json:"segment"`
	Mean    float64 `json:"sentiment_score"`
	Count   int     `json:"count"`
}

// SegmentMeans averages scores per segment, highest first. Responses
// without a segment are skipped.
func SegmentMeans(responses []model.SurveyResponse) []SegmentMean {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range responses {
		if r.Segment == "" {
			continue
		}
		sums[r.Segment] += r.SentimentScore
		counts[r.Segment]++
	}

	out := make([]SegmentMean, 0, len(counts))
	for seg, c := range counts {
		out = append(out, SegmentMean{Segment: seg, Mean: sums[seg] / float64(c), Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}
