package usecase

import (
	"math"
	"testing"

	"github.com/documind-ai/documind/internal/core/domain"
)

func TestRerankResultsBoostsNeverLowerScore(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", Text: "vacation days accrue monthly", Similarity: 0.7},
		{ChunkID: "c2", Text: "unrelated content", Similarity: 0.65},
	}

	reranked := rerankResults(results, "vacation days", 0)
	for _, r := range reranked {
		if r.RerankScore < r.Similarity {
			t.Fatalf("rerank score %v below base similarity %v for %s", r.RerankScore, r.Similarity, r.ChunkID)
		}
	}
}

func TestRerankResultsExactPhraseAndTermBoost(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", Text: "the vacation policy covers accrual", Similarity: 0.5},
	}

	reranked := rerankResults(results, "vacation policy", 0)
	// Two term hits at 0.05 each plus the 0.1 exact phrase boost.
	want := 0.5 + 0.1 + 0.1
	if math.Abs(reranked[0].RerankScore-want) > 1e-9 {
		t.Fatalf("expected rerank score %v, got %v", want, reranked[0].RerankScore)
	}
}

func TestRerankResultsKeywordBoostCap(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", Text: "alpha beta gamma delta epsilon zeta", Similarity: 0.4},
	}

	reranked := rerankResults(results, "alpha beta gamma delta epsilon zeta", 0)
	// Six term hits saturate the 0.2 keyword cap; the full phrase adds 0.1.
	want := 0.4 + 0.2 + 0.1
	if math.Abs(reranked[0].RerankScore-want) > 1e-9 {
		t.Fatalf("expected capped rerank score %v, got %v", want, reranked[0].RerankScore)
	}
}

func TestRerankResultsTitleBoost(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", DocumentTitle: "Vacation Policy", Text: "details elsewhere", Similarity: 0.5},
		{ChunkID: "c2", DocumentTitle: "Expense Guide", Text: "details elsewhere", Similarity: 0.5},
	}

	reranked := rerankResults(results, "vacation policy", 0)
	if reranked[0].ChunkID != "c1" {
		t.Fatalf("expected title-matching chunk first, got %s", reranked[0].ChunkID)
	}
	if math.Abs(reranked[0].RerankScore-(0.5+0.06)) > 1e-9 {
		t.Fatalf("expected title boost 0.06, got rerank score %v", reranked[0].RerankScore)
	}
}

func TestRerankResultsStableWithoutBoosts(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", Text: "aaa", Similarity: 0.6},
		{ChunkID: "c2", Text: "bbb", Similarity: 0.6},
		{ChunkID: "c3", Text: "ccc", Similarity: 0.6},
	}

	reranked := rerankResults(results, "zzz", 0)
	if reranked[0].ChunkID != "c1" || reranked[1].ChunkID != "c2" || reranked[2].ChunkID != "c3" {
		t.Fatalf("expected original order preserved under equal scores")
	}
}

func TestRerankResultsTruncates(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", Similarity: 0.9},
		{ChunkID: "c2", Similarity: 0.8},
		{ChunkID: "c3", Similarity: 0.7},
	}

	reranked := rerankResults(results, "query", 2)
	if len(reranked) != 2 {
		t.Fatalf("expected 2 results after truncation, got %d", len(reranked))
	}
}
