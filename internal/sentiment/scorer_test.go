package sentiment

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/spacesedan/reviewpulse/internal/models"
)

func TestLabelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  models.SentimentLabel
	}{
		{0.06, models.LabelPositive},
		{0.9, models.LabelPositive},
		{-0.2, models.LabelNegative},
		{-1, models.LabelNegative},
		{0.0, models.LabelNeutral},
		{0.05, models.LabelNeutral},
		{-0.05, models.LabelNeutral},
	}

	for _, tt := range tests {
		if got := LabelFor(tt.score); got != tt.want {
			t.Errorf("LabelFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestVaderScorer(t *testing.T) {
	t.Parallel()

	v := NewVaderScorer()

	tests := []struct {
		name string
		text string
		want models.SentimentLabel
	}{
		{name: "positive", text: "I love this phone, it is great!", want: models.LabelPositive},
		{name: "negative", text: "Terrible battery. Awful and horrible phone.", want: models.LabelNegative},
		{name: "empty", text: "", want: models.LabelNeutral},
		{name: "markdown emphasis", text: "This camera is **amazing**", want: models.LabelPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, label := v.AnalyzeWithVADER(tt.text)
			if models.SentimentLabel(label) != tt.want {
				t.Errorf("label = %s (score %.3f), want %s", label, score, tt.want)
			}
			if score < -1 || score > 1 {
				t.Errorf("score %v out of range", score)
			}
		})
	}
}

func TestVaderScorerIsPure(t *testing.T) {
	t.Parallel()

	v := NewVaderScorer()
	texts := []string{"Great screen", "Awful lag", "It is a phone"}

	first, err := v.ScoreAll(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := v.ScoreAll(context.Background(), []string{texts[2], texts[0], texts[1]})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first[0] != second[1] || first[1] != second[2] || first[2] != second[0] {
		t.Errorf("scores depend on batch order: %v vs %v", first, second)
	}
}

func TestConvertMarkdownToText(t *testing.T) {
	t.Parallel()

	got := ConvertMarkdownToText("It's **really** good, see [here](https://example.com) or www.example.com")
	want := "It's really good, see here or"
	if got != want {
		t.Errorf("ConvertMarkdownToText() = %q, want %q", got, want)
	}
}

type staticScorer struct {
	scores []float64
	err    error
	calls  int
}

func (s *staticScorer) ScoreAll(_ context.Context, texts []string) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.scores[:len(texts)], nil
}

func TestApply(t *testing.T) {
	t.Parallel()

	scores, err := Apply(context.Background(), &staticScorer{scores: []float64{1.5, -2, 0.3}}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[0] != 1 || scores[1] != -1 || scores[2] != 0.3 {
		t.Errorf("expected clamped scores, got %v", scores)
	}

	_, err = Apply(context.Background(), &staticScorer{err: errors.New("boom")}, []string{"a"})
	if !IsDependencyError(err) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

type fakeAnalyzer struct {
	batches atomic.Int32
	drop    string
	err     error
}

func (f *fakeAnalyzer) GetBatchedSentimentAnalysis(_ context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error) {
	f.batches.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out models.SentimentAnalysisBatchResponse
	for _, post := range input.Posts {
		if post.ContentID == f.drop {
			continue
		}
		idx, _ := strconv.Atoi(post.ContentID)
		out = append(out, models.SentimentAnalysisResponse{ContentID: post.ContentID, SentimentScore: float64(idx) / 1000})
	}
	return out, nil
}

func TestRemoteScorer(t *testing.T) {
	t.Parallel()

	texts := make([]string, 120)
	for i := range texts {
		texts[i] = "review " + strconv.Itoa(i)
	}

	analyzer := &fakeAnalyzer{drop: "-1"}
	scores, err := NewRemoteScorer(analyzer).ScoreAll(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analyzer.batches.Load() != 3 {
		t.Errorf("expected 3 batches, got %d", analyzer.batches.Load())
	}
	if scores[119] != 0.119 {
		t.Errorf("scores not in input order: %v", scores[119])
	}

	_, err = NewRemoteScorer(&fakeAnalyzer{drop: "7"}).ScoreAll(context.Background(), texts)
	if !IsDependencyError(err) {
		t.Errorf("expected dependency error for missing result, got %v", err)
	}
}

func TestFallbackScorer(t *testing.T) {
	t.Parallel()

	t.Run("primary failure uses fallback", func(t *testing.T) {
		t.Parallel()
		primary := &staticScorer{err: errors.New("down")}
		fallback := &staticScorer{scores: []float64{0.4}}
		f := &FallbackScorer{Primary: primary, Fallback: fallback}

		scores, err := f.ScoreAll(context.Background(), []string{"x"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scores[0] != 0.4 || fallback.calls != 1 {
			t.Errorf("expected fallback scores, got %v", scores)
		}
	})

	t.Run("unhealthy primary is skipped", func(t *testing.T) {
		t.Parallel()
		healthy := &atomic.Bool{}
		primary := &staticScorer{scores: []float64{0.9}}
		fallback := &staticScorer{scores: []float64{0.1}}
		f := &FallbackScorer{Primary: primary, Fallback: fallback, Healthy: healthy}

		if _, err := f.ScoreAll(context.Background(), []string{"x"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if primary.calls != 0 {
			t.Errorf("primary should not be called while unhealthy")
		}
	})
}
