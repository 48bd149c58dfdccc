package processing

import (
	"math"
	"strings"
	"testing"

	"github.com/spacesedan/reviewpulse/internal/ingest"
	"github.com/spacesedan/reviewpulse/internal/models"
)

func mustParse(t *testing.T, csv string) *ingest.Dataset {
	t.Helper()
	ds, err := ingest.Parse([]byte(csv), "test.csv")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ds
}

func mustRecords(t *testing.T, ds *ingest.Dataset, scores []float64) []models.ReviewRecord {
	t.Helper()
	records, err := BuildRecords(ds, scores)
	if err != nil {
		t.Fatalf("build records: %v", err)
	}
	return records
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildRecordsScoreMismatch(t *testing.T) {
	t.Parallel()

	ds := mustParse(t, "Reviews\na\nb\n")
	if _, err := BuildRecords(ds, []float64{0.1}); err == nil {
		t.Fatal("expected error for score count mismatch")
	}
}

func TestAnalyzeDistribution(t *testing.T) {
	t.Parallel()

	ds := mustParse(t, "Reviews\ngood\nfine\nbad\nworse\nok\n")
	records := mustRecords(t, ds, []float64{0.8, 0.06, -0.2, -0.9, 0.0})
	result := Analyze(ds, records)

	stats := result.Stats
	if stats.Positive != 2 || stats.Negative != 2 || stats.Neutral != 1 || stats.Total != 5 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Positive+stats.Neutral+stats.Negative != ds.Len() {
		t.Errorf("distribution does not sum to row count")
	}
	if got := result.ChartData.Distribution.Values; got[0] != 2 || got[1] != 1 || got[2] != 2 {
		t.Errorf("unexpected distribution %v", got)
	}
	if got := result.ChartData.Counts.Values; got[0] != 5 {
		t.Errorf("unexpected total %v", got)
	}
	if !approxEqual(result.Means.Positive, 0.43) {
		t.Errorf("positive mean = %v, want 0.43", result.Means.Positive)
	}
	if !approxEqual(result.Means.Negative, -0.55) {
		t.Errorf("negative mean = %v, want -0.55", result.Means.Negative)
	}
	if result.Means.Neutral != 0 {
		t.Errorf("neutral mean = %v, want 0", result.Means.Neutral)
	}
}

func TestAnalyzeEmptyPartitionMeanIsZero(t *testing.T) {
	t.Parallel()

	ds := mustParse(t, "Reviews\ngood\ngreat\n")
	result := Analyze(ds, mustRecords(t, ds, []float64{0.5, 0.7}))
	if result.ChartData.Sentiment.Means[1] != 0 {
		t.Errorf("expected zero negative mean, got %v", result.ChartData.Sentiment.Means[1])
	}
	if len(result.NegativePhrases) != 0 {
		t.Errorf("expected no negative phrases, got %v", result.NegativePhrases)
	}
}

func TestCountComplaints(t *testing.T) {
	t.Parallel()

	records := []models.ReviewRecord{
		{Text: "Screen cracked and the BATTERY drains", SentimentLabel: models.LabelNegative},
		{Text: "Camera lens scratched", SentimentLabel: models.LabelNegative},
		{Text: "The display is the best screen ever", SentimentLabel: models.LabelPositive},
		{Text: "so slow", SentimentLabel: models.LabelNegative},
		{Text: "meh", SentimentLabel: models.LabelNeutral},
	}

	got := CountComplaints(records)
	want := models.ComplaintCounts{"screen": 1, "battery": 1, "camera": 1, "performance": 1, "build": 1}
	for name, count := range want {
		if got[name] != count {
			t.Errorf("%s = %d, want %d", name, got[name], count)
		}
	}
	if len(got) != 5 {
		t.Errorf("expected all five categories, got %v", got)
	}
}

func TestComputeRatingStats(t *testing.T) {
	t.Parallel()

	t.Run("no rating column", func(t *testing.T) {
		t.Parallel()
		ds := mustParse(t, "Reviews\ngood\n")
		stats, status := ComputeRatingStats(ds, mustRecords(t, ds, []float64{0.5}))
		if stats != nil || status != models.RatingStatusNoColumn {
			t.Errorf("got %v, %s", stats, status)
		}
	})

	t.Run("no numeric ratings", func(t *testing.T) {
		t.Parallel()
		ds := mustParse(t, "Reviews,Rating\ngood,five\nbad,\n")
		stats, status := ComputeRatingStats(ds, mustRecords(t, ds, []float64{0.5, -0.5}))
		if stats != nil || status != models.RatingStatusNoNumericRatings {
			t.Errorf("got %v, %s", stats, status)
		}
	})

	t.Run("mixed ratings", func(t *testing.T) {
		t.Parallel()
		ds := mustParse(t, "Reviews,Rating\ngood,5\nokay,4.0\nbad,1\nunrated,n/a\nhalf,3.5\n")
		records := mustRecords(t, ds, []float64{0.5, 0.1, -0.5, 0.9, 0.0})
		stats, status := ComputeRatingStats(ds, records)
		if status != models.RatingStatusOK || stats == nil {
			t.Fatalf("expected stats, got %s", status)
		}

		if !approxEqual(stats.AverageRating, 3.375) {
			t.Errorf("average = %v, want 3.375", stats.AverageRating)
		}
		wantDist := map[string]int{"1": 1, "2": 0, "3": 0, "4": 1, "5": 1}
		for k, v := range wantDist {
			if stats.RatingDistribution[k] != v {
				t.Errorf("bucket %s = %d, want %d", k, stats.RatingDistribution[k], v)
			}
		}
		if !approxEqual(stats.SentimentMean, 0.025) {
			t.Errorf("sentiment mean = %v, want 0.025", stats.SentimentMean)
		}
		if got, want := stats.ComparisonScore, 3.375/5-0.025; !approxEqual(got, want) {
			t.Errorf("comparison = %v, want %v", got, want)
		}
	})

	t.Run("alternate column name", func(t *testing.T) {
		t.Parallel()
		ds := mustParse(t, "Reviews,Stars\ngood,2\n")
		stats, status := ComputeRatingStats(ds, mustRecords(t, ds, []float64{0.5}))
		if status != models.RatingStatusOK || stats.RatingDistribution["2"] != 1 {
			t.Errorf("got %+v, %s", stats, status)
		}
	})
}

func TestClassifyTrend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mean float64
		want models.Trend
	}{
		{0.05, models.TrendStable},
		{-0.05, models.TrendStable},
		{0.0, models.TrendStable},
		{0.0501, models.TrendUp},
		{0.7, models.TrendUp},
		{-0.0501, models.TrendDown},
		{-0.6, models.TrendDown},
	}

	for _, tt := range tests {
		got := ClassifyTrend(tt.mean)
		if got.Trend != tt.want {
			t.Errorf("ClassifyTrend(%v) = %s, want %s", tt.mean, got.Trend, tt.want)
		}
		if !strings.Contains(got.Message, strings.ToLower(string(tt.want))) {
			t.Errorf("message %q does not mention %s", got.Message, tt.want)
		}
	}

	if got := ClassifyTrend(0.12345).AvgSentiment; got != 0.12 {
		t.Errorf("avg_sentiment = %v, want 0.12", got)
	}
}

func TestResolveProductInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		csv       string
		wantName  string
		wantBrand string
		wantPrice string
	}{
		{
			name:      "canonical columns",
			csv:       "Product Name,Brand Name,Price,Reviews\nGalaxy S,Samsung,\"$1,299.99\",good\n",
			wantName:  "Galaxy S",
			wantBrand: "Samsung",
			wantPrice: "1299.99",
		},
		{
			name:      "alternate columns in priority order",
			csv:       "product,Brand,price,Reviews\nPixel,Google,Rs. 45000,good\n",
			wantName:  "Pixel",
			wantBrand: "Google",
			wantPrice: "45000.00",
		},
		{
			name:      "empty first candidate falls through",
			csv:       "Product Name,Title,Reviews\n,Moto G,good\n",
			wantName:  "Moto G",
			wantBrand: models.DefaultBrandName,
			wantPrice: models.DefaultPrice,
		},
		{
			name:      "unparseable price keeps raw value",
			csv:       "Price,Reviews\ncall us,good\n",
			wantName:  models.DefaultProductName,
			wantBrand: models.DefaultBrandName,
			wantPrice: "call us",
		},
		{
			name:      "defaults",
			csv:       "Reviews\ngood\n",
			wantName:  models.DefaultProductName,
			wantBrand: models.DefaultBrandName,
			wantPrice: models.DefaultPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := ResolveProductInfo(mustParse(t, tt.csv))
			if info.Name != tt.wantName || info.Brand != tt.wantBrand || info.Price.String() != tt.wantPrice {
				t.Errorf("got %q/%q/%q, want %q/%q/%q",
					info.Name, info.Brand, info.Price.String(), tt.wantName, tt.wantBrand, tt.wantPrice)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		parsed bool
		want   string
	}{
		{"499", true, "499.00"},
		{"$1,299.99", true, "1299.99"},
		{"€ 12", true, "12.00"},
		{"₹45,999", true, "45999.00"},
		{"INR 300", true, "300.00"},
		{"free", false, "free"},
	}

	for _, tt := range tests {
		got := ParsePrice(tt.raw)
		if got.Parsed != tt.parsed || got.String() != tt.want {
			t.Errorf("ParsePrice(%q) = %+v (%s), want parsed=%v %s", tt.raw, got, got.String(), tt.parsed, tt.want)
		}
	}
}
