package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/PUSHPAK-96/cartwise/internal/export"
	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/survey"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...)
}

func metric(v float64) string {
	s := export.FormatFloat(v)
	if s == "inf" || s == "" {
		return s
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// RenderStats writes the dataset overview.
func RenderStats(w io.Writer, stats model.BasketStats, top []model.ProductCount) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Invoices: %s\n", BoldStyle.Render(strconv.Itoa(stats.Invoices)))
	fmt.Fprintf(&b, "Products: %s\n", BoldStyle.Render(strconv.Itoa(stats.Products)))
	fmt.Fprintf(&b, "Rows:     %s", BoldStyle.Render(strconv.Itoa(stats.Rows)))
	if _, err := fmt.Fprintln(w, RenderBox(ChartIcon+" Basket data", b.String())); err != nil {
		return err
	}
	if len(top) == 0 {
		return nil
	}

	t := newTable("#", "Product", "Invoices")
	for i, pc := range top {
		t.Row(strconv.Itoa(i+1), pc.Product, strconv.Itoa(pc.Count))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderRules writes the rule table, or a notice when there is nothing to show.
func RenderRules(w io.Writer, display []model.DisplayRule) error {
	if len(display) == 0 {
		_, err := fmt.Fprintln(w, FormatWarning("No rules match these thresholds. Try the exploration preset or lower min support."))
		return err
	}

	t := newTable("Antecedents", "Consequents", "Support", "Confidence", "Lift", "Leverage", "Conviction")
	for _, r := range display {
		t.Row(r.AntecedentsStr, r.ConsequentsStr,
			metric(r.Support), metric(r.Confidence), metric(r.Lift),
			metric(r.Leverage), metric(r.Conviction))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderRecommendations writes ranked add-on products for a basket.
func RenderRecommendations(w io.Writer, basket []string, recs []model.Recommendation) error {
	if _, err := fmt.Fprintln(w, SubtitleStyle.Render("Basket: "+strings.Join(basket, ", "))); err != nil {
		return err
	}
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No rules fire for this basket."))
		return err
	}

	t := newTable("#", "Product", "Score", "Confidence", "Lift", "Support")
	for i, r := range recs {
		t.Row(strconv.Itoa(i+1), r.Product, metric(r.Score), metric(r.Confidence), metric(r.Lift), metric(r.Support))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderSurvey writes sentiment share, score summary, segment means and
// keywords.
func RenderSurvey(w io.Writer, responses []model.SurveyResponse, keywords []string) error {
	if len(responses) == 0 {
		_, err := fmt.Fprintln(w, FormatWarning("No responses match these filters."))
		return err
	}

	share := newTable("Sentiment", "Responses", "Share")
	for _, e := range survey.Share(responses) {
		share.Row(SentimentStyle(string(e.Sentiment)).Render(string(e.Sentiment)),
			strconv.Itoa(e.Count), fmt.Sprintf("%.1f%%", e.Percent))
	}

	s := survey.Describe(survey.Scores(responses))
	summary := fmt.Sprintf("count %d  mean %.3f  std %.3f\nmin %.3f  25%% %.3f  50%% %.3f  75%% %.3f  max %.3f",
		s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)

	out := []string{
		FormatTitle("Survey sentiment"),
		share.String(),
		RenderBox(ChatIcon+" Sentiment score", summary),
	}

	if means := survey.SegmentMeans(responses); len(means) > 0 {
		seg := newTable("Segment", "Responses", "Mean score")
		for _, m := range means {
			seg.Row(m.Segment, strconv.Itoa(m.Count), metric(m.Mean))
		}
		out = append(out, seg.String())
	}
	if len(keywords) > 0 {
		out = append(out, BoldStyle.Render("Top keywords: ")+strings.Join(keywords, ", "))
	}

	_, err := fmt.Fprintln(w, strings.Join(out, "\n"))
	return err
}

// RenderResponses writes enriched rows, truncating long text.
func RenderResponses(w io.Writer, rows []model.SurveyResponse, total int) error {
	t := newTable("Row", "Sentiment", "Score", "Rating", "Text")
	for _, r := range rows {
		rating := ""
		if r.Rating != nil {
			rating = strconv.FormatFloat(*r.Rating, 'g', -1, 64)
		}
		t.Row(strconv.Itoa(r.Row),
			SentimentStyle(string(r.Sentiment)).Render(string(r.Sentiment)),
			metric(r.SentimentScore), rating, truncate(r.FreeText, 60))
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, SubtleStyle.Render(fmt.Sprintf("Showing %d of %d responses", len(rows), total)))
	return err
}

// RenderDatasets lists stored datasets.
func RenderDatasets(w io.Writer, datasets []model.Dataset) error {
	if len(datasets) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No datasets imported yet. Use 'cartwise import <file>'."))
		return err
	}
	t := newTable("Name", "Invoices", "Products", "Rows", "Imported")
	for _, d := range datasets {
		t.Row(d.Name, strconv.Itoa(d.Invoices), strconv.Itoa(d.Products), strconv.Itoa(d.Rows),
			d.ImportedAt.Local().Format("2006-01-02 15:04"))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
