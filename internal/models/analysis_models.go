package models

import (
	"encoding/json"
	"fmt"
)

type Trend string

const (
	TrendUp     Trend = "Up"
	TrendDown   Trend = "Down"
	TrendStable Trend = "Stable"
)

// RatingStatus tells callers why rating statistics are or are not present.
type RatingStatus string

const (
	RatingStatusOK               RatingStatus = "ok"
	RatingStatusNoColumn         RatingStatus = "no_rating_column"
	RatingStatusNoNumericRatings RatingStatus = "no_numeric_ratings"
)

type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type MeanSeries struct {
	Labels []string  `json:"labels"`
	Means  []float64 `json:"means"`
}

type ChartData struct {
	Sentiment    MeanSeries  `json:"sentiment"`
	Distribution ChartSeries `json:"distribution"`
	Counts       ChartSeries `json:"counts"`
}

type SentimentStats struct {
	Total    int `json:"total_reviews"`
	Positive int `json:"positive_reviews"`
	Negative int `json:"negative_reviews"`
	Neutral  int `json:"neutral_reviews"`
}

// LabelMeans holds the mean score of each label partition; 0 for empty ones.
type LabelMeans struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

type SalesTrend struct {
	AvgSentiment float64 `json:"avg_sentiment"`
	Trend        Trend   `json:"trend"`
	Message      string  `json:"message"`
}

type RatingStats struct {
	AverageRating      float64        `json:"average_rating"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	SentimentMean      float64        `json:"sentiment_mean"`
	ComparisonScore    float64        `json:"comparison_score"`
}

// Phrase is a token and its frequency. It encodes as a two element array,
// e.g. ["great", 3].
type Phrase struct {
	Token string
	Count int
}

func (p Phrase) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Token, p.Count})
}

func (p *Phrase) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("phrase: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Token); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &p.Count)
}

// ComplaintCounts maps a complaint category to the number of negative reviews
// that mention it.
type ComplaintCounts map[string]int

// AnalysisResult is the aggregate for one upload. It lives for a single
// request and is never persisted.
type AnalysisResult struct {
	ChartData           ChartData       `json:"chart_data"`
	ProductInfo         ProductInfo     `json:"product_info"`
	CommonPhrases       []Phrase        `json:"common_phrases"`
	NegativePhrases     []Phrase        `json:"negative_phrases"`
	ComplaintCategories ComplaintCounts `json:"complaint_categories"`
	SentimentScore      float64         `json:"sentiment_score"`
	SalesTrend          SalesTrend      `json:"sales_trend"`
	Stats               SentimentStats  `json:"stats"`
	RatingStatus        RatingStatus    `json:"rating_status"`
	RatingStats         *RatingStats    `json:"rating_stats,omitempty"`

	Means LabelMeans `json:"-"`
}
