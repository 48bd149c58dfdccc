package models

import "time"

type UploadResponse struct {
	Success bool `json:"success"`
	*AnalysisResult
}

type ErrorResponse struct {
	Error            string   `json:"error"`
	Success          bool     `json:"success"`
	AvailableColumns []string `json:"available_columns,omitempty"`
	NearMatches      []string `json:"near_matches,omitempty"`
}

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// AnalysisEvent is published after each successful upload. It carries
// aggregates only, never review text.
type AnalysisEvent struct {
	SessionID           string          `json:"session_id"`
	Timestamp           time.Time       `json:"timestamp"`
	ProductName         string          `json:"product_name"`
	Stats               SentimentStats  `json:"stats"`
	SentimentScore      float64         `json:"sentiment_score"`
	Trend               Trend           `json:"trend"`
	ComplaintCategories ComplaintCounts `json:"complaint_categories"`
	RatingStatus        RatingStatus    `json:"rating_status"`
}
