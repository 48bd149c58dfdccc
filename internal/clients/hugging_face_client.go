package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/reviewpulse/internal/models"
)

const (
	HF_SENTIMENT_ANALYSIS_PATH = "/analyze_batch"
	HF_HEALTH_PATH             = "/health"
)

// HuggingFaceClient talks to the hosted sentiment analysis service.
type HuggingFaceClient struct {
	Client         *http.Client
	BaseURL        string
	MaxRetries     int
	InitialBackoff time.Duration
}

func NewHuggingFaceClient(baseURL string, timeout time.Duration) *HuggingFaceClient {
	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.String("base_url", baseURL),
		slog.Duration("timeout", timeout))

	return &HuggingFaceClient{
		Client:         &http.Client{Timeout: timeout},
		BaseURL:        strings.TrimRight(baseURL, "/"),
		MaxRetries:     MAX_RETRIES,
		InitialBackoff: INITIAL_BACKOFF,
	}
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. newRequest is called once per attempt so the body can be resent.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, newRequest func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.InitialBackoff

	for attempt := 0; attempt < max(h.MaxRetries, 1); attempt++ {
		var req *http.Request
		req, err = newRequest()
		if err != nil {
			return nil, err
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
			if err == nil {
				err = fmt.Errorf("status code %d", resp.StatusCode)
			}
			resp = nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	return nil, err
}

func (h *HuggingFaceClient) GetBatchedSentimentAnalysis(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error) {
	var result models.SentimentAnalysisBatchResponse
	slog.Info("[HuggingFaceClient] Requesting sentiment analysis from sentiment analysis service",
		slog.Int("posts", len(input.Posts)))
	start := time.Now()

	err := h.postJSON(ctx, h.BaseURL+HF_SENTIMENT_ANALYSIS_PATH, input, &result)
	if err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	slog.Info("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// AnalyzerHealthCheck reports whether the service answers its health route
// with a 2xx status. It does not retry.
func (h *HuggingFaceClient) AnalyzerHealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+HF_HEALTH_PATH, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Health check failed",
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// helper function for posting data to the sentiment service
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		return req, nil
	})
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))

		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[HuggingFaceClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
