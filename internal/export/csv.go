// Package export writes analysis results as CSV and Excel downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/rules"
	"github.com/PUSHPAK-96/cartwise/internal/survey"
)

// RecommendationColumns is the header of recommendation downloads.
var RecommendationColumns = []string{"product", "score", "support", "confidence", "lift"}

// WriteRulesCSV writes rules in the rule table's column order.
func WriteRulesCSV(w io.Writer, display []model.DisplayRule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rules.Columns()); err != nil {
		return fmt.Errorf("failed to write rules header: %w", err)
	}
	for _, r := range display {
		if err := cw.Write(RuleRecord(r)); err != nil {
			return fmt.Errorf("failed to write rule: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RuleRecord renders one rule as strings in rules.Columns order.
func RuleRecord(r model.DisplayRule) []string {
	return []string{
		r.AntecedentsStr,
		r.ConsequentsStr,
		FormatFloat(r.Support),
		FormatFloat(r.Confidence),
		FormatFloat(r.Lift),
		FormatFloat(r.Leverage),
		FormatFloat(r.Conviction),
		FormatFloat(r.AntecedentSupport),
		FormatFloat(r.ConsequentSupport),
	}
}

// WriteRecommendationsCSV writes scored recommendations.
func WriteRecommendationsCSV(w io.Writer, recs []model.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecommendationColumns); err != nil {
		return fmt.Errorf("failed to write recommendations header: %w", err)
	}
	for _, r := range recs {
		record := []string{
			r.Product,
			FormatFloat(r.Score),
			FormatFloat(r.Support),
			FormatFloat(r.Confidence),
			FormatFloat(r.Lift),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write recommendation: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSurveyCSV writes enriched responses: free_text, rating and segment
// when any row carries them, the remaining columns alphabetically, then
// sentiment_score and sentiment.
func WriteSurveyCSV(w io.Writer, responses []model.SurveyResponse) error {
	var hasRating, hasSegment bool
	extraSet := make(map[string]bool)
	for _, r := range responses {
		hasRating = hasRating || r.Rating != nil
		hasSegment = hasSegment || r.Segment != ""
		for k := range r.Extra {
			extraSet[k] = true
		}
	}
	extras := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	header := []string{survey.ColumnFreeText}
	if hasRating {
		header = append(header, survey.ColumnRating)
	}
	if hasSegment {
		header = append(header, survey.ColumnSegment)
	}
	header = append(header, extras...)
	header = append(header, "sentiment_score", "sentiment")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write survey header: %w", err)
	}
	for _, r := range responses {
		record := []string{r.FreeText}
		if hasRating {
			rating := ""
			if r.Rating != nil {
				rating = FormatFloat(*r.Rating)
			}
			record = append(record, rating)
		}
		if hasSegment {
			record = append(record, r.Segment)
		}
		for _, k := range extras {
			record = append(record, r.Extra[k])
		}
		record = append(record, FormatFloat(r.SentimentScore), string(r.Sentiment))
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write survey row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatFloat renders numbers the way spreadsheet tools read them back;
// infinite conviction becomes "inf".
func FormatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
