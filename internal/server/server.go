// Package server exposes the review analysis pipeline and the chat answerer
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/reviewpulse/config"
	"github.com/spacesedan/reviewpulse/internal/chat"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/session"
)

const SessionCookie = "reviewpulse_session"

// EventPublisher is satisfied by kafka_client.Producer.
type EventPublisher interface {
	PublishAnalysisEvent(ctx context.Context, event models.AnalysisEvent) error
}

type Server struct {
	settings *config.Settings
	scorer   sentiment.Scorer
	store    session.Store
	answerer *chat.Answerer
	events   EventPublisher
}

// New wires a Server. events may be nil.
func New(settings *config.Settings, scorer sentiment.Scorer, store session.Store, answerer *chat.Answerer, events EventPublisher) *Server {
	return &Server{
		settings: settings,
		scorer:   scorer,
		store:    store,
		answerer: answerer,
		events:   events,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return withLogging(withCORS(s.settings.AllowedOrigin, mux))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"llm":             s.answerer.ModelEnabled(),
		"session_backend": s.settings.SessionBackend,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("[ChatHandler] Invalid request body",
			slog.String("error", err.Error()))
	}

	sc, err := s.store.Get(r.Context(), id)
	if err != nil {
		slog.Error("[ChatHandler] Failed to load session",
			slog.String("session_id", id),
			slog.String("error", err.Error()))
	}

	answer := s.answerer.Answer(r.Context(), sc, req.Question)
	writeJSON(w, http.StatusOK, models.ChatResponse{Answer: answer})
}

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none or an invalid one.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[HTTP] Failed to encode response",
			slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, models.ErrorResponse{Error: msg, Success: false})
}

func withCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if origin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("[HTTP] Request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}
