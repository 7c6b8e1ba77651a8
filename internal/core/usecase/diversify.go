package usecase

import (
	"sort"

	"github.com/documind-ai/documind/internal/core/domain"
)

func effectiveScore(r domain.ScoredResult) float64 {
	if r.RerankScore > 0 {
		return r.RerankScore
	}
	return r.Similarity
}

// diversifyResults caps the number of results any single document may
// contribute. Admission runs over the whole list in descending score order
// gated by a per-document counter, then the admitted subset is re-sorted by
// score. Admission order is global, not per-document: a document's counter
// fills with whichever of its chunks score highest overall.
func diversifyResults(results []domain.ScoredResult, maxPerDocument int) []domain.ScoredResult {
	if len(results) == 0 || maxPerDocument <= 0 {
		return results
	}

	ordered := make([]domain.ScoredResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return effectiveScore(ordered[i]) > effectiveScore(ordered[j])
	})

	admitted := make([]domain.ScoredResult, 0, len(ordered))
	perDocument := make(map[string]int, len(ordered))
	for _, result := range ordered {
		docID := result.DocumentID
		if docID == "" {
			docID = result.ChunkID
		}
		if perDocument[docID] >= maxPerDocument {
			continue
		}
		perDocument[docID]++
		admitted = append(admitted, result)
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		return effectiveScore(admitted[i]) > effectiveScore(admitted[j])
	})
	return admitted
}
