package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/utils"
	"golang.org/x/sync/errgroup"
)

const (
	RemoteBatchSize   = 50
	RemoteConcurrency = 4
)

// BatchAnalyzer is the remote sentiment service.
type BatchAnalyzer interface {
	GetBatchedSentimentAnalysis(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error)
}

// RemoteScorer sends texts to a sentiment service in fixed size batches, at
// most RemoteConcurrency batches in flight.
type RemoteScorer struct {
	client    BatchAnalyzer
	batchSize int
}

func NewRemoteScorer(client BatchAnalyzer) *RemoteScorer {
	return &RemoteScorer{client: client, batchSize: RemoteBatchSize}
}

func (r *RemoteScorer) ScoreAll(ctx context.Context, texts []string) ([]float64, error) {
	requests := make([]models.SentimentAnalysisRequest, len(texts))
	for i, text := range texts {
		requests[i] = models.SentimentAnalysisRequest{ContentID: strconv.Itoa(i), Text: text}
	}

	scores := make([]float64, len(texts))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(RemoteConcurrency)

	for _, batch := range utils.Chunk(requests, r.batchSize) {
		g.Go(func() error {
			resp, err := r.client.GetBatchedSentimentAnalysis(gCtx, models.SentimentAnalysisBatchRequest{Posts: batch})
			if err != nil {
				return &DependencyError{Dependency: "remote sentiment service", Err: err}
			}

			byID := mapSentimentScoreToContentID(resp)
			for _, req := range batch {
				result, ok := byID[req.ContentID]
				if !ok {
					return &DependencyError{
						Dependency: "remote sentiment service",
						Err:        fmt.Errorf("no result for content id %s", req.ContentID),
					}
				}
				idx, _ := strconv.Atoi(req.ContentID)
				scores[idx] = result.SentimentScore
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// mapSentimentScoreToContentID indexes results to avoid nested loops.
func mapSentimentScoreToContentID(scores models.SentimentAnalysisBatchResponse) map[string]models.SentimentAnalysisResponse {
	scoreMap := make(map[string]models.SentimentAnalysisResponse, len(scores))
	for _, score := range scores {
		scoreMap[score.ContentID] = score
	}
	return scoreMap
}

// FallbackScorer prefers Primary and switches to Fallback when the primary is
// marked unhealthy or returns an error.
type FallbackScorer struct {
	Primary  Scorer
	Fallback Scorer
	Healthy  *atomic.Bool
}

func (f *FallbackScorer) ScoreAll(ctx context.Context, texts []string) ([]float64, error) {
	if f.Healthy != nil && !f.Healthy.Load() {
		slog.Warn("[FallbackScorer] Primary scorer unhealthy, using fallback",
			slog.Int("texts", len(texts)))
		return f.Fallback.ScoreAll(ctx, texts)
	}

	scores, err := f.Primary.ScoreAll(ctx, texts)
	if err == nil {
		return scores, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	slog.Warn("[FallbackScorer] Primary scorer failed, using fallback",
		slog.String("error", err.Error()))
	return f.Fallback.ScoreAll(ctx, texts)
}
