package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendValkey = "valkey"

	ScorerVader  = "vader"
	ScorerRemote = "remote"

	LLMProviderOpenAI    = "openai"
	LLMProviderAnthropic = "anthropic"
)

// Settings is the process configuration, read from the environment.
type Settings struct {
	Port          string `envconfig:"PORT" default:"5000"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`

	LLMProvider   string        `envconfig:"LLM_PROVIDER" default:"openai"`
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	OpenAITimeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"20s"`

	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`

	SessionBackend    string        `envconfig:"SESSION_BACKEND" default:"memory"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"0s"`
	SessionMaxEntries int           `envconfig:"SESSION_MAX_ENTRIES" default:"1000"`

	ValkeyAddress  string `envconfig:"VALKEY_INIT_ADDRESS" default:"localhost:6379"`
	ValkeyPassword string `envconfig:"VALKEY_PASSWORD"`
	ValkeyTLS      bool   `envconfig:"VALKEY_TLS" default:"false"`

	ScorerKind     string `envconfig:"SENTIMENT_SCORER" default:"vader"`
	ScorerEndpoint string `envconfig:"SENTIMENT_ENDPOINT"`

	// Bounds for the per-session snapshot used by the chat endpoint.
	ContextSampleSize int `envconfig:"CONTEXT_SAMPLE_SIZE" default:"50"`
	ContextCharBudget int `envconfig:"CONTEXT_CHAR_BUDGET" default:"3000"`

	KafkaBroker string `envconfig:"KAFKA_BROKER"`
	EventsTopic string `envconfig:"ANALYSIS_EVENTS_TOPIC" default:"review-analysis"`
}

// Load reads Settings from the environment and validates them.
func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	switch s.SessionBackend {
	case SessionBackendMemory, SessionBackendValkey:
	default:
		return fmt.Errorf("unknown session backend %q", s.SessionBackend)
	}

	switch s.LLMProvider {
	case LLMProviderOpenAI, LLMProviderAnthropic:
	default:
		return fmt.Errorf("unknown llm provider %q", s.LLMProvider)
	}

	switch s.ScorerKind {
	case ScorerVader:
	case ScorerRemote:
		if s.ScorerEndpoint == "" {
			return fmt.Errorf("SENTIMENT_ENDPOINT is required for the remote scorer")
		}
	default:
		return fmt.Errorf("unknown sentiment scorer %q", s.ScorerKind)
	}

	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if s.SessionMaxEntries <= 0 {
		return fmt.Errorf("SESSION_MAX_ENTRIES must be positive")
	}
	if s.ContextCharBudget <= 0 {
		return fmt.Errorf("CONTEXT_CHAR_BUDGET must be positive")
	}
	return nil
}

// LLMEnabled reports whether the selected provider has a credential.
// OPENAI_TIMEOUT bounds model calls for either provider.
func (s *Settings) LLMEnabled() bool {
	if s.LLMProvider == LLMProviderAnthropic {
		return s.AnthropicAPIKey != ""
	}
	return s.OpenAIAPIKey != ""
}
