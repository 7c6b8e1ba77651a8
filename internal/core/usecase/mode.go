package usecase

import (
	"regexp"
	"strings"

	"github.com/documind-ai/documind/internal/core/domain"
)

// Patterns that indicate keyword search is the better strategy: acronyms,
// digit sequences, quoted phrases, CamelCase terms, UPPER_SNAKE identifiers.
// Overlapping matches are allowed; the score sums across all patterns.
var keywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z]{2,}`),
	regexp.MustCompile(`[0-9]+`),
	regexp.MustCompile(`"[^"]+"`),
	regexp.MustCompile(`'[^']+'`),
	regexp.MustCompile(`[A-Z][a-z]+[A-Z]`),
	regexp.MustCompile(`\b[A-Z][A-Z0-9_]+\b`),
}

var questionWords = []string{
	"what", "how", "why", "when", "where", "who", "which", "explain", "describe",
}

// SelectSearchMode classifies a query as semantic, keyword or hybrid using
// ordered heuristics; the first matching rule wins. Quoting and keyword
// pattern density dominate, question style and length are secondary, hybrid
// is the catch-all.
func SelectSearchMode(query string) domain.SearchMode {
	if strings.ContainsAny(query, `"'`) {
		return domain.ModeKeyword
	}

	keywordScore := 0
	for _, pattern := range keywordPatterns {
		keywordScore += len(pattern.FindAllString(query, -1))
	}

	words := strings.Fields(query)
	if len(words) <= 2 && keywordScore > 0 {
		return domain.ModeKeyword
	}
	if keywordScore >= 2 {
		return domain.ModeKeyword
	}

	lower := strings.ToLower(query)
	for _, qw := range questionWords {
		if strings.HasPrefix(lower, qw) {
			return domain.ModeSemantic
		}
	}
	if len(words) >= 6 {
		return domain.ModeSemantic
	}

	return domain.ModeHybrid
}
