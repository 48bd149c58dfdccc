package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips the resulting markup so
// that emphasis markers and link syntax do not reach the lexicon lookup.
func ConvertMarkdownToText(input string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.UseXHTML,
	})
	output := blackfriday.Run([]byte(RemoveLinks(input)),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(renderer))

	plain := html.UnescapeString(tagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(plain), " ")
}

// VaderScorer scores text with the VADER lexicon. It keeps no state between
// calls and is safe for concurrent use.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the VADER compound score of text, in [-1, 1].
func (v *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return v.analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound
}

func (v *VaderScorer) ScoreAll(ctx context.Context, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	for i, text := range texts {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		scores[i] = v.Score(text)
	}
	return scores, nil
}

// AnalyzeWithVADER returns the compound score of text and its label.
func (v *VaderScorer) AnalyzeWithVADER(text string) (float64, string) {
	score := v.Score(text)
	return score, string(LabelFor(score))
}
