package processing

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/spacesedan/reviewpulse/internal/models"
)

// TopPhraseCount is the number of phrases returned by ExtractPhrases.
const TopPhraseCount = 10

// ExtractPhrases returns the most frequent non-stopword alphabetic tokens
// across all texts. Counts are global, not per review. Ties keep the order in
// which tokens were first seen.
func ExtractPhrases(texts []string) []models.Phrase {
	counts := make(map[string]int)
	var order []string

	for _, text := range texts {
		for _, token := range Tokenize(strings.ToLower(text)) {
			if isStopword(token) || !isAlpha(token) {
				continue
			}
			if counts[token] == 0 {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > TopPhraseCount {
		order = order[:TopPhraseCount]
	}

	phrases := make([]models.Phrase, 0, len(order))
	for _, token := range order {
		phrases = append(phrases, models.Phrase{Token: token, Count: counts[token]})
	}
	return phrases
}

// safeExtractPhrases never fails; a panic in extraction degrades to an empty
// list.
func safeExtractPhrases(texts []string, kind string) (phrases []models.Phrase) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[Phrases] Phrase extraction failed",
				slog.String("kind", kind),
				slog.Any("panic", r))
			phrases = []models.Phrase{}
		}
	}()
	return ExtractPhrases(texts)
}

// Tokenize splits text into word tokens. Punctuation separates tokens,
// clitics are split off the way treebank tokenizers do ("don't" gives "do",
// "it's" gives "it"), and hyphenated words stay whole.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		if word := stripClitic(b.String()); word != "" {
			tokens = append(tokens, word)
		}
		b.Reset()
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			b.WriteRune(r)
		case r == '\'' || r == '’' || r == '-':
			if b.Len() > 0 {
				b.WriteRune(r)
			}
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func stripClitic(word string) string {
	word = strings.ReplaceAll(word, "’", "'")
	word = strings.TrimRight(word, "'-")
	if strings.HasSuffix(word, "n't") {
		return word[:len(word)-3]
	}
	if i := strings.IndexByte(word, '\''); i >= 0 {
		return word[:i]
	}
	return word
}

func isAlpha(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) && !unicode.Is(unicode.Mn, r) {
			return false
		}
	}
	return true
}
