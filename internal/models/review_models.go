package models

// SentimentLabel is the three-way categorical sentiment of a review.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// ReviewRecord is one retained row of an uploaded data set. Text is never
// empty; the sentiment fields are derived and never read from the input.
type ReviewRecord struct {
	Text           string         `json:"text"`
	Rating         float64        `json:"rating,omitempty"`
	HasRating      bool           `json:"-"`
	SentimentScore float64        `json:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
}
