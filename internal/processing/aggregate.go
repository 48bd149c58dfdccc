// Package processing aggregates scored reviews into the analysis result and
// the session snapshot used for chat.
package processing

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/spacesedan/reviewpulse/internal/ingest"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

// BuildRecords joins the retained rows of ds with their scores. scores must
// be in row order.
func BuildRecords(ds *ingest.Dataset, scores []float64) ([]models.ReviewRecord, error) {
	texts := ds.Texts()
	if len(scores) != len(texts) {
		return nil, fmt.Errorf("[Aggregator] got %d scores for %d rows", len(scores), len(texts))
	}

	ratingColumn, hasRating := firstColumn(ds, RatingColumns)

	records := make([]models.ReviewRecord, len(texts))
	for i, text := range texts {
		records[i] = models.ReviewRecord{
			Text:           text,
			SentimentScore: scores[i],
			SentimentLabel: sentiment.LabelFor(scores[i]),
		}
		if !hasRating {
			continue
		}
		if raw, ok := ds.Value(i, ratingColumn); ok {
			if rating, ok := parseRating(raw); ok {
				records[i].Rating = rating
				records[i].HasRating = true
			}
		}
	}
	return records, nil
}

// Analyze computes the full analysis result for an upload.
func Analyze(ds *ingest.Dataset, records []models.ReviewRecord) *models.AnalysisResult {
	var positive, neutral, negative []float64
	var all []float64
	var negativeTexts []string
	texts := make([]string, 0, len(records))

	for _, r := range records {
		all = append(all, r.SentimentScore)
		texts = append(texts, r.Text)
		switch r.SentimentLabel {
		case models.LabelPositive:
			positive = append(positive, r.SentimentScore)
		case models.LabelNegative:
			negative = append(negative, r.SentimentScore)
			negativeTexts = append(negativeTexts, r.Text)
		default:
			neutral = append(neutral, r.SentimentScore)
		}
	}

	means := models.LabelMeans{
		Positive: mean(positive),
		Neutral:  mean(neutral),
		Negative: mean(negative),
	}
	stats := models.SentimentStats{
		Total:    len(records),
		Positive: len(positive),
		Negative: len(negative),
		Neutral:  len(neutral),
	}
	overall := mean(all)

	result := &models.AnalysisResult{
		ChartData: models.ChartData{
			Sentiment: models.MeanSeries{
				Labels: []string{"Positive", "Negative"},
				Means:  []float64{means.Positive, means.Negative},
			},
			Distribution: models.ChartSeries{
				Labels: []string{"Positive", "Neutral", "Negative"},
				Values: []int{stats.Positive, stats.Neutral, stats.Negative},
			},
			Counts: models.ChartSeries{
				Labels: []string{"Total Reviews"},
				Values: []int{stats.Total},
			},
		},
		ProductInfo:         ResolveProductInfo(ds),
		CommonPhrases:       safeExtractPhrases(texts, "common"),
		NegativePhrases:     safeExtractPhrases(negativeTexts, "negative"),
		ComplaintCategories: CountComplaints(records),
		SentimentScore:      overall,
		SalesTrend:          ClassifyTrend(overall),
		Stats:               stats,
		Means:               means,
	}

	ratingStats, status := ComputeRatingStats(ds, records)
	result.RatingStats = ratingStats
	result.RatingStatus = status
	if status == models.RatingStatusNoNumericRatings {
		slog.Warn("[Aggregator] Rating column present but no numeric ratings",
			slog.String("file", ds.Filename))
	}

	return result
}

// CountComplaints counts, for each complaint category, the negative reviews
// that mention it. A review can count toward several categories.
func CountComplaints(records []models.ReviewRecord) models.ComplaintCounts {
	counts := make(models.ComplaintCounts, len(ComplaintCategories))
	for _, category := range ComplaintCategories {
		counts[category.Name] = 0
	}
	for _, r := range records {
		if r.SentimentLabel != models.LabelNegative {
			continue
		}
		for _, name := range MatchCategories(r.Text) {
			counts[name]++
		}
	}
	return counts
}

// ComputeRatingStats summarizes the rows that carry a numeric rating. Rows
// without one are left out of this computation only.
func ComputeRatingStats(ds *ingest.Dataset, records []models.ReviewRecord) (*models.RatingStats, models.RatingStatus) {
	if _, ok := firstColumn(ds, RatingColumns); !ok {
		return nil, models.RatingStatusNoColumn
	}

	var ratings, scores []float64
	distribution := map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
	for _, r := range records {
		if !r.HasRating {
			continue
		}
		ratings = append(ratings, r.Rating)
		scores = append(scores, r.SentimentScore)
		if r.Rating == math.Trunc(r.Rating) && r.Rating >= 1 && r.Rating <= 5 {
			distribution[strconv.Itoa(int(r.Rating))]++
		}
	}
	if len(ratings) == 0 {
		return nil, models.RatingStatusNoNumericRatings
	}

	avgRating := mean(ratings)
	sentimentMean := mean(scores)
	return &models.RatingStats{
		AverageRating:      avgRating,
		RatingDistribution: distribution,
		SentimentMean:      sentimentMean,
		ComparisonScore:    avgRating/5 - sentimentMean,
	}, models.RatingStatusOK
}

func parseRating(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
