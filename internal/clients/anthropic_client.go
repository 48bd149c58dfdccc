package clients

import (
	"context"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxRetries = 2

type AnthropicClient struct {
	client anthropic.Client
	Model  string
}

func NewAnthropicClient(apiKey, model string, timeout time.Duration, opts ...option.RequestOption) *AnthropicClient {
	client := anthropic.NewClient(append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(anthropicMaxRetries),
	}, opts...)...)

	slog.Info("[AnthropicClient] Anthropic client initialized",
		slog.String("model", model),
		slog.Duration("timeout", timeout))

	return &AnthropicClient{client: client, Model: model}
}

// Complete sends the system prompt and one user message and joins the text
// blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.Model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		slog.Warn("[AnthropicClient] Message request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", err
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", ErrEmptyCompletion
	}

	slog.Info("[AnthropicClient] Message request succeeded",
		slog.Duration("elapsed", time.Since(start)))
	return answer, nil
}
