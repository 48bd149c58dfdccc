package chat

import (
	"fmt"
	"strings"

	"github.com/spacesedan/reviewpulse/internal/models"
)

var (
	positiveKeywords = []string{"positive", "good", "like", "love"}
	negativeKeywords = []string{"negative", "problem", "issue", "complaint", "bad"}
	phraseKeywords   = []string{"common", "phrase", "keyword", "word"}
)

// SelectExcerpt picks the part of the context most relevant to the question.
func SelectExcerpt(sc *models.SessionContext, question string) string {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, positiveKeywords):
		return strings.Join(sc.PositiveSamples, "\n")
	case containsAny(q, negativeKeywords):
		return strings.Join(sc.NegativeSamples, "\n")
	case containsAny(q, phraseKeywords):
		return fmt.Sprintf("Common phrases: %s\nPhrases in negative reviews: %s",
			formatPhrases(sc.CommonPhrases, len(sc.CommonPhrases), true),
			formatPhrases(sc.NegativePhrases, len(sc.NegativePhrases), true))
	default:
		return strings.Join(mixedSample(sc), "\n")
	}
}

// mixedSample interleaves the three label samples.
func mixedSample(sc *models.SessionContext) []string {
	groups := [][]string{sc.PositiveSamples, sc.NegativeSamples, sc.NeutralSamples}
	longest := 0
	for _, g := range groups {
		longest = max(longest, len(g))
	}

	out := make([]string, 0, len(sc.PositiveSamples)+len(sc.NegativeSamples)+len(sc.NeutralSamples))
	for i := 0; i < longest; i++ {
		for _, g := range groups {
			if i < len(g) {
				out = append(out, g[i])
			}
		}
	}
	return out
}

func formatPhrases(phrases []models.Phrase, limit int, withCounts bool) string {
	if len(phrases) == 0 {
		return "none"
	}
	parts := make([]string, 0, min(limit, len(phrases)))
	for _, p := range phrases[:min(limit, len(phrases))] {
		if withCounts {
			parts = append(parts, fmt.Sprintf("%s (%d)", p.Token, p.Count))
		} else {
			parts = append(parts, p.Token)
		}
	}
	return strings.Join(parts, ", ")
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
