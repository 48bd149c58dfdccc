package processing

import (
	"math"

	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

var trendMessages = map[models.Trend]string{
	models.TrendUp:     "Predicted sales trend is up based on sentiment. Customers are mostly satisfied, so the product is likely to sell well.",
	models.TrendDown:   "Predicted sales trend is down based on sentiment. Many customers are unhappy, which may reduce future sales.",
	models.TrendStable: "Predicted sales trend is stable based on sentiment. Customer opinions are mixed, so sales are expected to stay the same.",
}

// ClassifyTrend maps the overall mean score to a sales trend. Both thresholds
// are strict: a mean of exactly 0.05 or -0.05 is Stable.
func ClassifyTrend(mean float64) models.SalesTrend {
	trend := models.TrendStable
	switch {
	case mean > sentiment.PositiveThreshold:
		trend = models.TrendUp
	case mean < sentiment.NegativeThreshold:
		trend = models.TrendDown
	}
	return models.SalesTrend{
		AvgSentiment: round2(mean),
		Trend:        trend,
		Message:      trendMessages[trend],
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
