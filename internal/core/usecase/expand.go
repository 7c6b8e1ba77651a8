package usecase

import (
	"regexp"
	"strings"
)

// Synonym table for query expansion. Each matched token contributes at most
// its first two entries to keep the expanded query from exploding.
var synonyms = map[string][]string{
	"ai":        {"artificial intelligence", "machine learning", "ml"},
	"ml":        {"machine learning", "ai", "artificial intelligence"},
	"pto":       {"paid time off", "vacation", "time off", "leave"},
	"vacation":  {"pto", "paid time off", "time off", "holiday"},
	"sick":      {"illness", "medical", "health"},
	"401k":      {"retirement", "pension", "retirement plan"},
	"health":    {"medical", "healthcare", "wellness"},
	"insurance": {"coverage", "benefits", "plan"},
	"salary":    {"compensation", "pay", "wages"},
	"remote":    {"work from home", "wfh", "telecommute"},
	"wfh":       {"work from home", "remote", "telecommute"},
	"hr":        {"human resources", "personnel"},
	"employee":  {"staff", "worker", "team member"},
	"manager":   {"supervisor", "lead", "boss"},
	"review":    {"evaluation", "assessment", "appraisal"},
	"bonus":     {"incentive", "reward", "commission"},
}

const maxSynonymsPerToken = 2

var nonWordChars = regexp.MustCompile(`[^0-9A-Za-z_]`)

// ExpandQuery appends synonyms for known tokens to the query. The original
// text is preserved verbatim; when no token matches the query is returned
// unchanged.
func ExpandQuery(query string) string {
	words := strings.Fields(strings.ToLower(query))

	var expansions []string
	for _, word := range words {
		clean := nonWordChars.ReplaceAllString(word, "")
		related, ok := synonyms[clean]
		if !ok {
			continue
		}
		count := len(related)
		if count > maxSynonymsPerToken {
			count = maxSynonymsPerToken
		}
		expansions = append(expansions, related[:count]...)
	}

	if len(expansions) == 0 {
		return query
	}
	return query + " " + strings.Join(expansions, " ")
}
