package survey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PUSHPAK-96/cartwise/internal/common"
	"github.com/PUSHPAK-96/cartwise/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Hello   World ", "hello world"},
		{"<b>Great</b> service<br/>thanks", "great service thanks"},
		{"line\none\ttab", "line one tab"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in))
	}
}

func TestLoadResponses(t *testing.T) {
	csv := " Free_Text ,Rating,Segment,channel\n" +
		"<p>Loved   it</p>,5,Retail,web\n" +
		"not good,abc,Wholesale,phone\n" +
		"meh,,,\n"

	responses, err := LoadResponses(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, responses, 3)

	assert.Equal(t, "loved it", responses[0].FreeText)
	require.NotNil(t, responses[0].Rating)
	assert.Equal(t, 5.0, *responses[0].Rating)
	assert.Equal(t, "Retail", responses[0].Segment)
	assert.Equal(t, map[string]string{"channel": "web"}, responses[0].Extra)

	assert.Nil(t, responses[1].Rating)
	assert.Nil(t, responses[2].Rating)
	assert.Equal(t, 2, responses[2].Row)
}

func TestLoadResponses_MissingFreeText(t *testing.T) {
	_, err := LoadResponses(strings.NewReader("comment,rating\nhi,3\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSchema)

	var schemaErr *common.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"comment", "rating"}, schemaErr.Columns)
	assert.Contains(t, schemaErr.Hint(), "free_text")
}

func TestLoadResponses_HeaderOnly(t *testing.T) {
	responses, err := LoadResponses(strings.NewReader("free_text\n"))
	require.NoError(t, err)
	assert.NotNil(t, responses)
	assert.Empty(t, responses)
}

func TestLoadResponses_EmptyUpload(t *testing.T) {
	responses, err := LoadResponses(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, responses)
	assert.Empty(t, responses)

	assert.Empty(t, Share(Enrich(responses)))
	assert.Equal(t, Summary{}, Describe(Scores(responses)))
}

func TestAnalyzer_Score(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		text string
		want float64
	}{
		{"good", 0.4404},
		{"not good", -0.3412},
		{"very good", 0.4927},
		{"good!", 0.4926},
		{"the box arrived", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.InDelta(t, tt.want, a.Score(tt.text), 1e-3)
		})
	}
}

func TestAnalyzer_ScoreModifiers(t *testing.T) {
	a := NewAnalyzer()

	assert.Greater(t, a.Score("GOOD food"), a.Score("good food"))
	assert.Less(t, a.Score("the food was good but the service was bad"), -0.05)
	assert.Less(t, a.Score("worst"), a.Score("bad"))
	assert.Less(t, a.Score("don't like it"), 0.0)

	for _, text := range []string{"amazing amazing amazing love best great!!!!", "worst hate horrible awful bad!!!!"} {
		s := a.Score(text)
		assert.LessOrEqual(t, s, 1.0)
		assert.GreaterOrEqual(t, s, -1.0)
	}
}

func TestAnalyzer_CommonComplaints(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		text string
		want float64
	}{
		{"this app sucks", -0.3612},
		{"shipping was horrendous", -0.5859},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			score := a.Score(tt.text)
			assert.InDelta(t, tt.want, score, 1e-3)
			assert.Equal(t, model.SentimentNegative, Label(score))
		})
	}

	assert.Equal(t, model.SentimentNegative, Label(a.Score("total scam, want a refund")))
	assert.Equal(t, model.SentimentPositive, Label(a.Score("love the new app, great support")))
}

func TestAnalyzer_WithLexicon(t *testing.T) {
	base := NewAnalyzer()
	a := base.WithLexicon(map[string]float64{"Glitchy": -1.5})
	assert.InDelta(t, -0.3612, a.Score("glitchy"), 1e-3)
	assert.Equal(t, 0.0, base.Score("glitchy"))
	assert.InDelta(t, base.Score("good"), a.Score("good"), 1e-9)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  model.Sentiment
	}{
		{0.05, model.SentimentPositive},
		{0.9, model.SentimentPositive},
		{0.0499, model.SentimentNeutral},
		{-0.0499, model.SentimentNeutral},
		{-0.05, model.SentimentNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.score), "score %v", tt.score)
	}
}

func enriched() []model.SurveyResponse {
	return Enrich([]model.SurveyResponse{
		{Row: 0, FreeText: "great support team", Segment: "retail", Rating: ptr(5)},
		{Row: 1, FreeText: "terrible delivery and rude support", Segment: "retail", Rating: ptr(1)},
		{Row: 2, FreeText: "the package arrived", Segment: "wholesale"},
		{Row: 3, FreeText: "love the new app, great support", Segment: "wholesale", Rating: ptr(4)},
	})
}

func TestEnrich(t *testing.T) {
	rows := enriched()
	assert.Equal(t, model.SentimentPositive, rows[0].Sentiment)
	assert.Equal(t, model.SentimentNegative, rows[1].Sentiment)
	assert.Equal(t, model.SentimentNeutral, rows[2].Sentiment)
	assert.Equal(t, model.SentimentPositive, rows[3].Sentiment)
}

func TestFilter(t *testing.T) {
	rows := enriched()
	tests := []struct {
		name string
		opts FilterOptions
		want []int
	}{
		{"none", FilterOptions{}, []int{0, 1, 2, 3}},
		{"segment", FilterOptions{Segments: []string{"wholesale"}}, []int{2, 3}},
		{"min rating drops unrated", FilterOptions{MinRating: ptr(0)}, []int{0, 1, 3}},
		{"min rating", FilterOptions{MinRating: ptr(4)}, []int{0, 3}},
		{"score range", FilterOptions{ScoreMin: ptr(-0.05), ScoreMax: ptr(0.05)}, []int{2}},
		{"search", FilterOptions{Search: "  SUPPORT "}, []int{0, 1, 3}},
		{"combined", FilterOptions{Segments: []string{"retail"}, Search: "support", ScoreMin: ptr(0)}, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(rows, tt.opts)
			ids := make([]int, len(got))
			for i, r := range got {
				ids[i] = r.Row
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestNegatives(t *testing.T) {
	neg := Negatives(enriched())
	require.Len(t, neg, 1)
	assert.Equal(t, 1, neg[0].Row)
}

func TestPaginate(t *testing.T) {
	rows := enriched()

	page, total, err := Paginate(rows, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, page, 3)

	page, _, err = Paginate(rows, 3, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 3, page[0].Row)

	page, _, err = Paginate(rows, 3, 5)
	require.NoError(t, err)
	assert.Empty(t, page)

	_, _, err = Paginate(rows, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, _, err = Paginate(rows, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestShare(t *testing.T) {
	share := Share(enriched())
	require.Len(t, share, 3)
	assert.Equal(t, ShareEntry{Sentiment: model.SentimentPositive, Percent: 50, Count: 2}, share[0])
	assert.Equal(t, 25.0, share[1].Percent)
	assert.Equal(t, 25.0, share[2].Percent)

	thirds := Share([]model.SurveyResponse{
		{Sentiment: model.SentimentPositive},
		{Sentiment: model.SentimentNegative},
		{Sentiment: model.SentimentNeutral},
	})
	for _, s := range thirds {
		assert.Equal(t, 33.3, s.Percent)
	}

	assert.Empty(t, Share(nil))
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.2910, s.Std, 1e-4)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q1, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.InDelta(t, 3.25, s.Q3, 1e-9)
	assert.Equal(t, 4.0, s.Max)

	one := Describe([]float64{0.3})
	assert.Equal(t, 0.0, one.Std)
	assert.Equal(t, 0.3, one.Median)

	assert.Equal(t, Summary{}, Describe(nil))
}

func TestSegmentMeans(t *testing.T) {
	rows := []model.SurveyResponse{
		{Segment: "a", SentimentScore: 0.2},
		{Segment: "a", SentimentScore: 0.4},
		{Segment: "b", SentimentScore: 0.5},
		{SentimentScore: 0.9},
	}
	means := SegmentMeans(rows)
	require.Len(t, means, 2)
	assert.Equal(t, "b", means[0].Segment)
	assert.Equal(t, "a", means[1].Segment)
	assert.InDelta(t, 0.3, means[1].Mean, 1e-9)
	assert.Equal(t, 2, means[1].Count)

	assert.Equal(t, []string{"a", "b"}, Segments(rows))
}

func TestTopKeywords(t *testing.T) {
	texts := []string{
		"great support team",
		"support was slow",
		"great support overall",
		"shipping was slow",
		"x y unique words here",
	}
	kw := TopKeywords(texts, 3)
	require.Len(t, kw, 3)
	assert.Equal(t, []string{"support", "great", "great support"}, kw)
	assert.NotContains(t, kw, "unique")

	assert.Empty(t, TopKeywords([]string{"one off", "totally different"}, 5))
	assert.Empty(t, TopKeywords(nil, 5))
	assert.Empty(t, TopKeywords(texts, 0))
}
