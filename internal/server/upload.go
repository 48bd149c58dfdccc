package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spacesedan/reviewpulse/internal/ingest"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/processing"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

const (
	msgInternal     = "Internal server error"
	msgNoFile       = "No file uploaded"
	msgNoFilename   = "No selected file"
	msgInvalidType  = "Invalid file type. Please upload a CSV file."
	msgFileTooLarge = "File too large"

	publishTimeout = 10 * time.Second
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, s.settings.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, msgNoFilename)
		return
	}
	if strings.ToLower(filepath.Ext(header.Filename)) != ".csv" {
		writeError(w, http.StatusBadRequest, msgInvalidType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("[UploadHandler] Failed to read upload",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}

	start := time.Now()
	ds, err := ingest.Parse(data, header.Filename)
	if err != nil {
		writeIngestError(w, header.Filename, err)
		return
	}

	scores, err := sentiment.Apply(r.Context(), s.scorer, ds.Texts())
	if err != nil {
		slog.Error("[UploadHandler] Scoring failed",
			slog.String("filename", header.Filename),
			slog.Bool("dependency", sentiment.IsDependencyError(err)),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	records, err := processing.BuildRecords(ds, scores)
	if err != nil {
		slog.Error("[UploadHandler] Failed to build records",
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	result := processing.Analyze(ds, records)

	sc := processing.BuildContext(result, records, processing.ContextOptions{
		SampleSize: s.settings.ContextSampleSize,
		CharBudget: s.settings.ContextCharBudget,
	})
	if err := s.store.Put(r.Context(), id, sc); err != nil {
		slog.Error("[UploadHandler] Failed to store session context",
			slog.String("session_id", id),
			slog.String("error", err.Error()))
	}

	s.publishAnalysis(r.Context(), id, result)

	slog.Info("[UploadHandler] Upload analyzed",
		slog.String("filename", header.Filename),
		slog.String("encoding", ds.Encoding),
		slog.Int("reviews", ds.Len()),
		slog.Int("dropped", ds.Dropped()),
		slog.String("rating_status", string(result.RatingStatus)),
		slog.Duration("elapsed", time.Since(start)))

	writeJSON(w, http.StatusOK, models.UploadResponse{Success: true, AnalysisResult: result})
}

func writeIngestError(w http.ResponseWriter, filename string, err error) {
	slog.Warn("[UploadHandler] Rejected upload",
		slog.String("filename", filename),
		slog.String("error", err.Error()))

	var schemaErr *ingest.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:            schemaErr.Error(),
			Success:          false,
			AvailableColumns: schemaErr.Available,
			NearMatches:      schemaErr.NearMisses,
		})
	case errors.Is(err, ingest.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// publishAnalysis sends the upload's aggregates in the background. Failures
// are logged and never reach the caller.
func (s *Server) publishAnalysis(ctx context.Context, id string, result *models.AnalysisResult) {
	if s.events == nil {
		return
	}

	event := models.AnalysisEvent{
		SessionID:           id,
		Timestamp:           time.Now().UTC(),
		ProductName:         result.ProductInfo.Name,
		Stats:               result.Stats,
		SentimentScore:      result.SentimentScore,
		Trend:               result.SalesTrend.Trend,
		ComplaintCategories: result.ComplaintCategories,
		RatingStatus:        result.RatingStatus,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := s.events.PublishAnalysisEvent(ctx, event); err != nil {
			slog.Warn("[UploadHandler] Failed to publish analysis event",
				slog.String("session_id", id),
				slog.String("error", err.Error()))
		}
	}()
}
