package processing

import (
	"time"

	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/utils"
)

const (
	MinContextSamples     = 50
	MaxContextSamples     = 100
	DefaultContextSamples = 50
	DefaultCharBudget     = 3000
)

type ContextOptions struct {
	// SampleSize is clamped to [MinContextSamples, MaxContextSamples].
	SampleSize int
	// CharBudget caps the runes of review text stored in the snapshot.
	CharBudget int
}

func (o ContextOptions) normalized() ContextOptions {
	if o.SampleSize == 0 {
		o.SampleSize = DefaultContextSamples
	}
	o.SampleSize = max(MinContextSamples, min(o.SampleSize, MaxContextSamples))
	if o.CharBudget <= 0 {
		o.CharBudget = DefaultCharBudget
	}
	return o
}

// BuildContext snapshots an analysis for follow-up questions. The first
// SampleSize reviews are split by label and cut so that the snapshot never
// holds more than CharBudget runes of review text.
func BuildContext(result *models.AnalysisResult, records []models.ReviewRecord, opts ContextOptions) *models.SessionContext {
	opts = opts.normalized()

	ctx := &models.SessionContext{
		ProductInfo:         result.ProductInfo,
		Stats:               result.Stats,
		Means:               result.Means,
		SentimentScore:      result.SentimentScore,
		SalesTrend:          result.SalesTrend,
		CommonPhrases:       result.CommonPhrases,
		NegativePhrases:     result.NegativePhrases,
		ComplaintCategories: result.ComplaintCategories,
		RatingStats:         result.RatingStats,
		PositiveSamples:     []string{},
		NeutralSamples:      []string{},
		NegativeSamples:     []string{},
		CreatedAt:           time.Now().UTC(),
	}

	budget := opts.CharBudget
	for i, r := range records {
		if i >= opts.SampleSize || budget <= 0 {
			break
		}
		text := utils.Truncate(r.Text, budget)
		budget -= len([]rune(text))

		switch r.SentimentLabel {
		case models.LabelPositive:
			ctx.PositiveSamples = append(ctx.PositiveSamples, text)
		case models.LabelNegative:
			ctx.NegativeSamples = append(ctx.NegativeSamples, text)
		default:
			ctx.NeutralSamples = append(ctx.NeutralSamples, text)
		}
	}
	return ctx
}
