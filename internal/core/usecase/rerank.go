package usecase

import (
	"sort"
	"strings"

	"github.com/documind-ai/documind/internal/core/domain"
)

const (
	keywordBoostPerTerm = 0.05
	keywordBoostCap     = 0.2
	exactPhraseBoost    = 0.1
	titleBoostPerTerm   = 0.03
	titleBoostCap       = 0.1
)

// rerankResults applies a secondary scoring pass on top of the base
// similarity: a query-term-frequency boost saturating at four terms, a flat
// exact-phrase boost, and a document-title overlap boost. Boosts are
// additive and non-negative, so the rerank score never drops below the base
// similarity; it may exceed 1.0, which is fine for relative ordering. The
// sort is stable so boost-free lists keep their original order. A positive
// limit truncates after sorting.
func rerankResults(results []domain.ScoredResult, query string, limit int) []domain.ScoredResult {
	if len(results) == 0 {
		return results
	}

	queryLower := strings.ToLower(query)
	terms := strings.Fields(queryLower)

	out := make([]domain.ScoredResult, len(results))
	copy(out, results)

	for i := range out {
		content := strings.ToLower(out[i].Text)
		title := strings.ToLower(out[i].DocumentTitle)

		termHits := 0
		titleHits := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				termHits++
			}
			if strings.Contains(title, term) {
				titleHits++
			}
		}

		keywordBoost := float64(termHits) * keywordBoostPerTerm
		if keywordBoost > keywordBoostCap {
			keywordBoost = keywordBoostCap
		}
		phraseBoost := 0.0
		if queryLower != "" && strings.Contains(content, queryLower) {
			phraseBoost = exactPhraseBoost
		}
		titleBoost := float64(titleHits) * titleBoostPerTerm
		if titleBoost > titleBoostCap {
			titleBoost = titleBoostCap
		}

		out[i].RerankScore = out[i].Similarity + keywordBoost + phraseBoost + titleBoost
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RerankScore > out[j].RerankScore
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
