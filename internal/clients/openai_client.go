package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIMaxRetries = 2

var ErrEmptyCompletion = errors.New("model returned an empty completion")

type OpenAIClient struct {
	Client *openai.Client
	Model  string
}

// NewOpenAIClient builds a client whose requests, retries included, are
// bounded by timeout. opts are applied last.
func NewOpenAIClient(apiKey, model string, timeout time.Duration, opts ...option.RequestOption) *OpenAIClient {
	client := openai.NewClient(append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(openAIMaxRetries),
	}, opts...)...)

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", model),
		slog.Duration("timeout", timeout))

	return &OpenAIClient{Client: client, Model: model}
}

// Complete sends one system/user message pair and returns the trimmed reply.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	start := time.Now()
	chatCompletion, err := c.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		}),
		Model:       openai.F(openai.ChatModel(c.Model)),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		slog.Warn("[OpenAIClient] Chat completion failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", err
	}

	if len(chatCompletion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	answer := strings.TrimSpace(chatCompletion.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrEmptyCompletion
	}

	slog.Info("[OpenAIClient] Chat completion succeeded",
		slog.Duration("elapsed", time.Since(start)))
	return answer, nil
}
