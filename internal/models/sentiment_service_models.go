package models

// Wire types of the remote sentiment service. ContentID is the row index of
// the review inside the uploaded data set.
type (
	SentimentAnalysisBatchRequest struct {
		Posts []SentimentAnalysisRequest `json:"posts"`
	}
	SentimentAnalysisRequest struct {
		ContentID string `json:"content_id"`
		Text      string `json:"text"`
	}
)

type (
	SentimentAnalysisBatchResponse []SentimentAnalysisResponse
	SentimentAnalysisResponse      struct {
		ContentID      string  `json:"content_id"`
		SentimentScore float64 `json:"sentiment_score"`
		SentimentLabel string  `json:"sentiment_label"`
		Confidence     float64 `json:"confidence"`
	}
)
