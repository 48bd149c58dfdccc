package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/reviewpulse/config"
	"github.com/spacesedan/reviewpulse/internal/chat"
	"github.com/spacesedan/reviewpulse/internal/clients"
	"github.com/spacesedan/reviewpulse/internal/clients/kafka_client"
	"github.com/spacesedan/reviewpulse/internal/logging"
	"github.com/spacesedan/reviewpulse/internal/monitoring"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/server"
	"github.com/spacesedan/reviewpulse/internal/session"
)

const remoteScorerTimeout = 60 * time.Second

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	settings, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(settings.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scorer := buildScorer(ctx, settings)

	store, closeStore, err := buildStore(settings)
	if err != nil {
		slog.Error("Failed to initialize session store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	answerer := chat.NewAnswerer(buildLLM(settings), settings.OpenAITimeout)

	var events server.EventPublisher
	if kafkaCfg := kafka_client.GetKafkaConfig(settings); kafkaCfg.Enabled() {
		producer, err := kafka_client.NewProducer(kafkaCfg)
		if err != nil {
			slog.Warn("Kafka producer unavailable, analysis events disabled",
				slog.String("error", err.Error()))
		} else {
			defer producer.Close()
			events = producer
		}
	}

	srv := &http.Server{
		Addr:         ":" + settings.Port,
		Handler:      server.New(settings, scorer, store, answerer, events).Routes(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening",
			slog.String("addr", srv.Addr),
			slog.String("env", env),
			slog.String("scorer", settings.ScorerKind),
			slog.String("session_backend", settings.SessionBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", slog.String("error", err.Error()))
	}
	slog.Info("Server stopped")
}

func buildScorer(ctx context.Context, settings *config.Settings) sentiment.Scorer {
	vader := sentiment.NewVaderScorer()
	if settings.ScorerKind != config.ScorerRemote {
		return vader
	}

	hf := clients.NewHuggingFaceClient(settings.ScorerEndpoint, remoteScorerTimeout)
	healthy := &atomic.Bool{}
	healthy.Store(true)
	go monitoring.MonitorAnalyzerHealth(ctx, hf, healthy, monitoring.HEALTHCHECK_TIMER)

	return &sentiment.FallbackScorer{
		Primary:  sentiment.NewRemoteScorer(hf),
		Fallback: vader,
		Healthy:  healthy,
	}
}

func buildLLM(settings *config.Settings) chat.LLM {
	if !settings.LLMEnabled() {
		slog.Info("No model credential set, chat answers use keyword rules",
			slog.String("provider", settings.LLMProvider))
		return nil
	}
	if settings.LLMProvider == config.LLMProviderAnthropic {
		return clients.NewAnthropicClient(settings.AnthropicAPIKey, settings.AnthropicModel, settings.OpenAITimeout)
	}
	return clients.NewOpenAIClient(settings.OpenAIAPIKey, settings.OpenAIModel, settings.OpenAITimeout)
}

func buildStore(settings *config.Settings) (session.Store, func(), error) {
	if settings.SessionBackend != config.SessionBackendValkey {
		return session.NewMemoryStore(settings.SessionMaxEntries, settings.SessionTTL), func() {}, nil
	}

	client, err := clients.NewValkeyClient(clients.ValkeyOptions{
		Address:  settings.ValkeyAddress,
		Password: settings.ValkeyPassword,
		UseTLS:   settings.ValkeyTLS,
	})
	if err != nil {
		return nil, nil, err
	}
	return session.NewValkeyStore(client, settings.SessionTTL), client.Close, nil
}
