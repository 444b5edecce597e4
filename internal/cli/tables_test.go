package cli

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/rules"
	"github.com/PUSHPAK-96/cartwise/internal/survey"
)

func TestRenderRules(t *testing.T) {
	display := []model.DisplayRule{rules.Display(model.Rule{
		Antecedents: model.NewItemSet("beer"),
		Consequents: model.NewItemSet("diapers"),
		Support:     0.6,
		Confidence:  1,
		Lift:        1.25,
		Leverage:    0.12,
		Conviction:  math.Inf(1),
	})}

	var buf bytes.Buffer
	require.NoError(t, RenderRules(&buf, display))
	out := buf.String()
	assert.Contains(t, out, "beer")
	assert.Contains(t, out, "diapers")
	assert.Contains(t, out, "1.250")
	assert.Contains(t, out, "inf")
}

func TestRenderEmptyCollections(t *testing.T) {
	tests := []struct {
		render func(*bytes.Buffer) error
		name   string
		want   string
	}{
		{name: "rules", want: "No rules match", render: func(b *bytes.Buffer) error { return RenderRules(b, nil) }},
		{name: "recommendations", want: "No rules fire", render: func(b *bytes.Buffer) error {
			return RenderRecommendations(b, []string{"caviar"}, nil)
		}},
		{name: "survey", want: "No responses match", render: func(b *bytes.Buffer) error { return RenderSurvey(b, nil, nil) }},
		{name: "datasets", want: "No datasets imported", render: func(b *bytes.Buffer) error { return RenderDatasets(b, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.render(&buf))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestRenderStats(t *testing.T) {
	var buf bytes.Buffer
	stats := model.BasketStats{Invoices: 5, Products: 6, Rows: 18}
	top := []model.ProductCount{{Product: "bread", Count: 4}, {Product: "diapers", Count: 4}}

	require.NoError(t, RenderStats(&buf, stats, top))
	out := buf.String()
	assert.Contains(t, out, "18")
	assert.Contains(t, out, "bread")
	assert.Contains(t, out, "diapers")
}

func TestRenderRecommendations(t *testing.T) {
	var buf bytes.Buffer
	recs := []model.Recommendation{{Product: "diapers", Score: 1.25, Confidence: 1, Lift: 1.25, Support: 0.6}}

	require.NoError(t, RenderRecommendations(&buf, []string{"beer"}, recs))
	assert.Contains(t, buf.String(), "Basket: beer")
	assert.Contains(t, buf.String(), "diapers")
}

func TestRenderSurvey(t *testing.T) {
	rating := 5.0
	responses := survey.Enrich([]model.SurveyResponse{
		{FreeText: "great support", Rating: &rating, Segment: "retail", Row: 1},
		{FreeText: "terrible delivery", Segment: "wholesale", Row: 2},
	})

	var buf bytes.Buffer
	require.NoError(t, RenderSurvey(&buf, responses, []string{"support"}))
	out := buf.String()
	assert.Contains(t, out, "positive")
	assert.Contains(t, out, "negative")
	assert.Contains(t, out, "retail")
	assert.Contains(t, out, "Top keywords")

	buf.Reset()
	require.NoError(t, RenderResponses(&buf, responses[:1], 2))
	assert.Contains(t, buf.String(), "Showing 1 of 2 responses")
}

func TestRenderDatasets(t *testing.T) {
	var buf bytes.Buffer
	datasets := []model.Dataset{{
		Name:        "groceries",
		ImportedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		BasketStats: model.BasketStats{Invoices: 5, Products: 6, Rows: 18},
	}}
	require.NoError(t, RenderDatasets(&buf, datasets))
	assert.Contains(t, buf.String(), "groceries")
}

func TestMiningProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewMiningProgress(&buf, 3)
	p.Report(1, 6)
	p.Report(2, 4)
	p.Finish()

	assert.Equal(t, 2, p.Levels())
	assert.Contains(t, buf.String(), "level 2")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
