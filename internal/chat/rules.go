package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/processing"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

const HelpAnswer = `I can help you understand your product analysis! Try asking me about:
- Product information: "What product is this?"
- Overall sentiment: "What's the overall sentiment?"
- Sales trends: "What is the sales forecast?"
- Review counts: "How many reviews were analyzed?"
- Common phrases: "What are the most common words?"
- Improvements: "What should be improved?"`

type rule struct {
	keywords []string
	answer   func(sc *models.SessionContext) string
}

// Evaluated in order; the first group with a matching keyword answers.
var rules = []rule{
	{[]string{"product", "name", "brand", "price"}, productAnswer},
	{[]string{"sentiment", "feel", "opinion"}, sentimentAnswer},
	{[]string{"sales", "trend", "forecast"}, trendAnswer},
	{[]string{"how many", "count", "total", "number of"}, countsAnswer},
	{[]string{"phrase", "keyword", "common", "word"}, phrasesAnswer},
	{[]string{"improve", "problem", "complaint", "issue", "fix", "better"}, improvementAnswer},
}

// RuleAnswer answers from the stored context without a model.
func RuleAnswer(sc *models.SessionContext, question string) string {
	if sc == nil {
		return NoContextAnswer
	}
	q := strings.ToLower(question)
	for _, r := range rules {
		if containsAny(q, r.keywords) {
			return r.answer(sc)
		}
	}
	return HelpAnswer
}

func productAnswer(sc *models.SessionContext) string {
	info := sc.ProductInfo
	return fmt.Sprintf("This analysis is for %s by %s, priced at %s.", info.Name, info.Brand, info.Price)
}

func sentimentAnswer(sc *models.SessionContext) string {
	answer := fmt.Sprintf("The overall sentiment is %s with an average score of %.3f across %d reviews.",
		sentiment.LabelFor(sc.SentimentScore), sc.SentimentScore, sc.Stats.Total)
	if sc.RatingStats != nil {
		answer += fmt.Sprintf(" The average rating is %.2f.", sc.RatingStats.AverageRating)
	}
	return answer
}

func trendAnswer(sc *models.SessionContext) string {
	return fmt.Sprintf("Sales trend: %s. %s", sc.SalesTrend.Trend, sc.SalesTrend.Message)
}

func countsAnswer(sc *models.SessionContext) string {
	s := sc.Stats
	return fmt.Sprintf("I analyzed %d total reviews: %d positive, %d negative and %d neutral.",
		s.Total, s.Positive, s.Negative, s.Neutral)
}

func phrasesAnswer(sc *models.SessionContext) string {
	if len(sc.CommonPhrases) == 0 {
		return "No common phrases found in the analysis."
	}
	return fmt.Sprintf("Common phrases in reviews: %s.", formatPhrases(sc.CommonPhrases, 5, false))
}

func improvementAnswer(sc *models.SessionContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d reviews were negative.", sc.Stats.Negative, sc.Stats.Total)

	if areas := rankComplaints(sc.ComplaintCategories); len(areas) > 0 {
		fmt.Fprintf(&b, " The areas customers complain about most are: %s.", strings.Join(areas, ", "))
	} else {
		b.WriteString(" No specific complaint categories were detected.")
	}

	if len(sc.NegativePhrases) > 0 {
		fmt.Fprintf(&b, " Frequent words in negative reviews: %s.", formatPhrases(sc.NegativePhrases, 3, false))
	}
	return b.String()
}

// rankComplaints lists categories with at least one complaint, most frequent
// first, ties in category table order.
func rankComplaints(counts models.ComplaintCounts) []string {
	type ranked struct {
		name  string
		count int
	}
	var list []ranked
	for _, category := range processing.ComplaintCategories {
		if n := counts[category.Name]; n > 0 {
			list = append(list, ranked{category.Name, n})
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].count > list[j].count })

	out := make([]string, len(list))
	for i, r := range list {
		out[i] = fmt.Sprintf("%s (%d)", r.name, r.count)
	}
	return out
}
