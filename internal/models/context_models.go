package models

import "time"

// SessionContext is the bounded snapshot of the latest upload that grounds
// chat answers. A new upload replaces it wholesale.
type SessionContext struct {
	ProductInfo         ProductInfo     `json:"product_info"`
	Stats               SentimentStats  `json:"stats"`
	Means               LabelMeans      `json:"mean_scores"`
	SentimentScore      float64         `json:"sentiment_score"`
	SalesTrend          SalesTrend      `json:"sales_trend"`
	CommonPhrases       []Phrase        `json:"common_phrases"`
	NegativePhrases     []Phrase        `json:"negative_phrases"`
	ComplaintCategories ComplaintCounts `json:"complaint_categories"`
	RatingStats         *RatingStats    `json:"rating_stats,omitempty"`

	PositiveSamples []string `json:"positive_samples"`
	NeutralSamples  []string `json:"neutral_samples"`
	NegativeSamples []string `json:"negative_samples"`

	CreatedAt time.Time `json:"created_at"`
}

// TextLength is the number of runes of review text held by the snapshot.
func (c *SessionContext) TextLength() int {
	n := 0
	for _, group := range [][]string{c.PositiveSamples, c.NeutralSamples, c.NegativeSamples} {
		for _, s := range group {
			n += len([]rune(s))
		}
	}
	return n
}
