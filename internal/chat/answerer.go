// Package chat answers free-text questions about the most recent upload of a
// session, through a language model when one is configured and through
// keyword rules otherwise.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/reviewpulse/internal/models"
)

const (
	NoContextAnswer = "Please upload a product review file first."

	SystemPrompt = "You are a helpful product assistant."
	Temperature  = 0.7
	MaxTokens    = 150

	DefaultModelTimeout = 20 * time.Second
)

// LLM is a chat completion backend. clients.OpenAIClient implements it.
type LLM interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
}

type Answerer struct {
	llm     LLM
	timeout time.Duration
}

// NewAnswerer returns an answerer that uses llm when it is non-nil. A zero
// timeout selects DefaultModelTimeout.
func NewAnswerer(llm LLM, timeout time.Duration) *Answerer {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	return &Answerer{llm: llm, timeout: timeout}
}

func (a *Answerer) ModelEnabled() bool {
	return a.llm != nil
}

// Answer never fails. Model errors and empty completions fall back to the
// rule based answer.
func (a *Answerer) Answer(ctx context.Context, sc *models.SessionContext, question string) string {
	if sc == nil {
		return NoContextAnswer
	}
	question = strings.TrimSpace(question)

	if a.llm != nil && question != "" {
		answer, err := a.askModel(ctx, sc, question)
		if err == nil {
			return answer
		}
		slog.Warn("[Answerer] Model answer failed, using rules",
			slog.String("error", err.Error()))
	}

	return RuleAnswer(sc, question)
}

func (a *Answerer) askModel(ctx context.Context, sc *models.SessionContext, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	answer, err := a.llm.Complete(ctx, SystemPrompt, BuildPrompt(sc, question), Temperature, MaxTokens)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.New("empty answer")
	}

	slog.Info("[Answerer] Model answered",
		slog.Duration("elapsed", time.Since(start)))
	return answer, nil
}

// BuildPrompt embeds product info and an excerpt of the stored context chosen
// from the question's keywords.
func BuildPrompt(sc *models.SessionContext, question string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant that answers questions based on product reviews.\n")
	fmt.Fprintf(&b, "Product: %s by %s, priced at %s.\n",
		sc.ProductInfo.Name, sc.ProductInfo.Brand, sc.ProductInfo.Price)
	b.WriteString("Here are some customer reviews:\n---\n")
	b.WriteString(SelectExcerpt(sc, question))
	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "Now answer this question: %s\n", question)
	return b.String()
}
