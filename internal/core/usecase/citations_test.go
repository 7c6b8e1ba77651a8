package usecase

import (
	"testing"

	"github.com/documind-ai/documind/internal/core/domain"
)

func TestExtractCitationsFindsMarkers(t *testing.T) {
	sources := []domain.ScoredResult{
		{DocumentTitle: "Handbook", Position: 3, Similarity: 0.91},
		{DocumentTitle: "Benefits", Position: 1, Similarity: 0.84},
		{DocumentTitle: "Onboarding", Position: 0, Similarity: 0.72},
	}
	answer := "According to [Source 1], accrual starts immediately. [Source 3] covers the first week."

	summary := ExtractCitations(answer, sources)
	if summary.TotalSources != 3 || summary.CitedCount != 2 {
		t.Fatalf("expected 2 of 3 sources cited, got %d of %d", summary.CitedCount, summary.TotalSources)
	}
	if summary.Citations[0].CitationID != 1 || summary.Citations[0].Document != "Handbook" {
		t.Fatalf("unexpected first citation: %+v", summary.Citations[0])
	}
	if summary.Citations[1].CitationID != 3 || summary.Citations[1].Chunk != 0 {
		t.Fatalf("unexpected second citation: %+v", summary.Citations[1])
	}
}

func TestExtractCitationsNoMarkers(t *testing.T) {
	sources := []domain.ScoredResult{{DocumentTitle: "Handbook"}}

	summary := ExtractCitations("I don't have enough information.", sources)
	if summary.CitedCount != 0 || len(summary.Citations) != 0 {
		t.Fatalf("expected no citations, got %+v", summary)
	}
	if summary.TotalSources != 1 {
		t.Fatalf("expected total sources 1, got %d", summary.TotalSources)
	}
}
