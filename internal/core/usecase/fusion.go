package usecase

import (
	"sort"

	"github.com/documind-ai/documind/internal/core/domain"
)

const (
	// Placeholder similarities for lexical matches: full-text hits carry
	// more confidence than the degraded substring scan.
	fullTextMatchScore  = 0.8
	substringMatchScore = 0.6

	// Similarity floors for the semantic channel. Hybrid search uses the
	// stricter floor since the keyword channel compensates for recall.
	semanticSimilarityFloor = 0.35
	hybridSimilarityFloor   = 0.5
)

func lexicalPlaceholderScore(kind domain.LexicalKind) float64 {
	if kind == domain.LexicalSubstring {
		return substringMatchScore
	}
	return fullTextMatchScore
}

// fuseResults merges the semantic and keyword channels into one ranked,
// deduplicated list. Semantic results have insertion priority; a chunk found
// by both channels is tagged MatchBoth and its weighted scores are summed,
// not replaced. The fused score is deliberately not normalized: agreement
// between channels is allowed to push a chunk above either channel's
// maximum. The fused weighted score becomes the output Similarity.
func fuseResults(semantic, keyword []domain.ScoredResult, limit int) []domain.ScoredResult {
	merged := make([]domain.ScoredResult, 0, len(semantic)+len(keyword))
	position := make(map[string]int, len(semantic)+len(keyword))

	for _, result := range semantic {
		if _, seen := position[result.ChunkID]; seen {
			continue
		}
		position[result.ChunkID] = len(merged)
		merged = append(merged, result)
	}

	for _, result := range keyword {
		at, seen := position[result.ChunkID]
		if !seen {
			position[result.ChunkID] = len(merged)
			merged = append(merged, result)
			continue
		}
		merged[at].SearchType = domain.MatchBoth
		merged[at].WeightedScore += result.WeightedScore
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].WeightedScore > merged[j].WeightedScore
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	for i := range merged {
		merged[i].Similarity = merged[i].WeightedScore
	}
	return merged
}
