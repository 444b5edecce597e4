package model

// Sentiment is the polarity label of a survey response.
type Sentiment string

// Sentiment labels.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// SurveyResponse is one row of a survey export.
type SurveyResponse struct {
	Rating         *float64          `json:"rating,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
	FreeText       string            `json:"free_text"`
	Segment        string            `json:"segment,omitempty"`
	Sentiment      Sentiment         `json:"sentiment"`
	SentimentScore float64           `json:"sentiment_score"`
	Row            int               `json:"row"`
}
