package processing

import "strings"

// ComplaintCategory is a fixed group of keywords that identify one kind of
// product complaint.
type ComplaintCategory struct {
	Name     string
	Keywords []string
}

// ComplaintCategories is ordered; the order is the presentation order.
var ComplaintCategories = []ComplaintCategory{
	{Name: "screen", Keywords: []string{"screen", "display", "touch", "brightness"}},
	{Name: "battery", Keywords: []string{"battery", "charge", "charging", "power"}},
	{Name: "camera", Keywords: []string{"camera", "photo", "picture", "lens"}},
	{Name: "performance", Keywords: []string{"slow", "lag", "crash", "freeze", "performance"}},
	{Name: "build", Keywords: []string{"build", "material", "quality", "durability", "scratch"}},
}

// MatchCategories returns every category with at least one keyword contained
// in text, case-insensitively.
func MatchCategories(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, category := range ComplaintCategories {
		if containsAny(lower, category.Keywords) {
			matched = append(matched, category.Name)
		}
	}
	return matched
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
