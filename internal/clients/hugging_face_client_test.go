package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/reviewpulse/internal/models"
)

func newTestClient(url string) *HuggingFaceClient {
	c := NewHuggingFaceClient(url, 2*time.Second)
	c.InitialBackoff = time.Millisecond
	return c
}

func TestGetBatchedSentimentAnalysis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != HF_SENTIMENT_ANALYSIS_PATH || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req models.SentimentAnalysisBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := make(models.SentimentAnalysisBatchResponse, 0, len(req.Posts))
		for _, p := range req.Posts {
			resp = append(resp, models.SentimentAnalysisResponse{ContentID: p.ContentID, SentimentScore: 0.5})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/")
	got, err := c.GetBatchedSentimentAnalysis(context.Background(), models.SentimentAnalysisBatchRequest{
		Posts: []models.SentimentAnalysisRequest{{ContentID: "0", Text: "good"}, {ContentID: "1", Text: "bad"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].ContentID != "1" || got[1].SentimentScore != 0.5 {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestDoWithRetryRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GetBatchedSentimentAnalysis(context.Background(), models.SentimentAnalysisBatchRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestDoWithRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GetBatchedSentimentAnalysis(context.Background(), models.SentimentAnalysisBatchRequest{}); err == nil {
		t.Fatal("expected an error")
	}
	if int(calls.Load()) != MAX_RETRIES {
		t.Errorf("expected %d attempts, got %d", MAX_RETRIES, calls.Load())
	}
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GetBatchedSentimentAnalysis(context.Background(), models.SentimentAnalysisBatchRequest{}); err == nil {
		t.Fatal("expected an error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 attempt, got %d", calls.Load())
	}
}

func TestAnalyzerHealthCheck(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != HF_HEALTH_PATH || !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if !c.AnalyzerHealthCheck(context.Background()) {
		t.Error("expected healthy")
	}
	healthy.Store(false)
	if c.AnalyzerHealthCheck(context.Background()) {
		t.Error("expected unhealthy")
	}
}
