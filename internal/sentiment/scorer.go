// Package sentiment turns review text into polarity scores and labels.
package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/spacesedan/reviewpulse/internal/models"
)

// Label thresholds. A score must be strictly beyond a threshold to leave the
// neutral band.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Scorer returns one compound score in [-1, 1] per input text, in input order.
// Implementations must score each text independently of the others.
type Scorer interface {
	ScoreAll(ctx context.Context, texts []string) ([]float64, error)
}

// LabelFor maps a compound score to its label.
func LabelFor(score float64) models.SentimentLabel {
	switch {
	case score > PositiveThreshold:
		return models.LabelPositive
	case score < NegativeThreshold:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// DependencyError reports that an external capability (remote scorer, language
// model) failed or was unavailable.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// IsDependencyError reports whether err wraps a *DependencyError.
func IsDependencyError(err error) bool {
	var depErr *DependencyError
	return errors.As(err, &depErr)
}

// Apply scores texts with scorer and returns the scores clamped to [-1, 1].
// A scorer failure fails the whole batch so the label distribution always
// covers every row.
func Apply(ctx context.Context, scorer Scorer, texts []string) ([]float64, error) {
	scores, err := scorer.ScoreAll(ctx, texts)
	if err != nil {
		if IsDependencyError(err) {
			return nil, err
		}
		return nil, &DependencyError{Dependency: "sentiment scorer", Err: err}
	}
	if len(scores) != len(texts) {
		return nil, &DependencyError{
			Dependency: "sentiment scorer",
			Err:        fmt.Errorf("returned %d scores for %d texts", len(scores), len(texts)),
		}
	}
	for i, s := range scores {
		scores[i] = clamp(s)
	}
	return scores, nil
}

func clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
