package survey

import (
	"maps"
	"strings"
	"sync"

	"github.com/jonreiter/govader"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Label thresholds on the compound score.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Analyzer computes VADER compound sentiment scores.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer returns an analyzer using the full VADER lexicon.
func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// WithLexicon returns a copy of a whose lexicon is extended (or overridden)
// by extra.
func (a *Analyzer) WithLexicon(extra map[string]float64) *Analyzer {
	v := govader.NewSentimentIntensityAnalyzer()
	v.Lexicon = maps.Clone(a.vader.Lexicon)
	for w, score := range extra {
		v.Lexicon[strings.ToLower(w)] = score
	}
	return &Analyzer{vader: v}
}

// Score returns the compound polarity of text in [-1, 1].
func (a *Analyzer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return a.vader.PolarityScores(text).Compound
}

// Enrich returns copies of responses with score and label set.
func (a *Analyzer) Enrich(responses []model.SurveyResponse) []model.SurveyResponse {
	out := make([]model.SurveyResponse, len(responses))
	for i, r := range responses {
		r.SentimentScore = a.Score(r.FreeText)
		r.Sentiment = Label(r.SentimentScore)
		out[i] = r
	}
	return out
}

var defaultAnalyzer = sync.OnceValue(NewAnalyzer)

// Enrich scores responses with a shared default analyzer.
func Enrich(responses []model.SurveyResponse) []model.SurveyResponse {
	return defaultAnalyzer().Enrich(responses)
}

// Label maps a compound score to a sentiment.
func Label(score float64) model.Sentiment {
	switch {
	case score >= PositiveThreshold:
		return model.SentimentPositive
	case score <= NegativeThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}
