package analysis

import (
	"slices"
	"strings"

	"clauselens/internal/model"
)

// Rank returns clauses ordered high, medium, low, keeping the input order
// within a level. A non-empty query keeps only clauses whose title, summary or
// impact contains at least one of the query's words (case-insensitive).
func Rank(clauses []model.Clause, query string) []model.Clause {
	tokens := strings.Fields(strings.ToLower(query))

	out := make([]model.Clause, 0, len(clauses))
	for _, c := range clauses {
		if len(tokens) == 0 || matchesAny(searchText(c), tokens) {
			out = append(out, c)
		}
	}

	slices.SortStableFunc(out, func(a, b model.Clause) int {
		return a.Risk.Order() - b.Risk.Order()
	})
	return out
}

func searchText(c model.Clause) string {
	return strings.ToLower(c.Title + " " + c.Summary + " " + c.Impact)
}

func matchesAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
