package usecase

import (
	"testing"

	"github.com/documind-ai/documind/internal/core/domain"
)

func TestDiversifyResultsCapsPerDocument(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", DocumentID: "doc-a", Similarity: 0.9},
		{ChunkID: "c2", DocumentID: "doc-a", Similarity: 0.8},
		{ChunkID: "c3", DocumentID: "doc-a", Similarity: 0.7},
		{ChunkID: "c4", DocumentID: "doc-b", Similarity: 0.6},
	}

	diversified := diversifyResults(results, 2)
	if len(diversified) != 3 {
		t.Fatalf("expected 3 results, got %d", len(diversified))
	}
	if diversified[0].ChunkID != "c1" || diversified[1].ChunkID != "c2" || diversified[2].ChunkID != "c4" {
		t.Fatalf("unexpected order: %s, %s, %s",
			diversified[0].ChunkID, diversified[1].ChunkID, diversified[2].ChunkID)
	}
}

func TestDiversifyResultsAdmissionIsGlobal(t *testing.T) {
	// doc-a's highest-scoring chunks win its slots even when interleaved
	// with other documents in the input order.
	results := []domain.ScoredResult{
		{ChunkID: "c1", DocumentID: "doc-a", Similarity: 0.5},
		{ChunkID: "c2", DocumentID: "doc-b", Similarity: 0.9},
		{ChunkID: "c3", DocumentID: "doc-a", Similarity: 0.8},
		{ChunkID: "c4", DocumentID: "doc-a", Similarity: 0.7},
	}

	diversified := diversifyResults(results, 2)
	if len(diversified) != 3 {
		t.Fatalf("expected 3 results, got %d", len(diversified))
	}
	for _, r := range diversified {
		if r.ChunkID == "c1" {
			t.Fatalf("expected doc-a's lowest chunk dropped, got %v", diversified)
		}
	}
}

func TestDiversifyResultsPrefersRerankScore(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", DocumentID: "doc-a", Similarity: 0.9, RerankScore: 0.9},
		{ChunkID: "c2", DocumentID: "doc-a", Similarity: 0.5, RerankScore: 1.0},
		{ChunkID: "c3", DocumentID: "doc-a", Similarity: 0.8, RerankScore: 0.8},
	}

	diversified := diversifyResults(results, 2)
	if len(diversified) != 2 {
		t.Fatalf("expected 2 results, got %d", len(diversified))
	}
	if diversified[0].ChunkID != "c2" || diversified[1].ChunkID != "c1" {
		t.Fatalf("expected rerank-score ordering, got %s, %s", diversified[0].ChunkID, diversified[1].ChunkID)
	}
}

func TestDiversifyResultsZeroCapIsNoop(t *testing.T) {
	results := []domain.ScoredResult{
		{ChunkID: "c1", DocumentID: "doc-a", Similarity: 0.9},
		{ChunkID: "c2", DocumentID: "doc-a", Similarity: 0.8},
	}

	diversified := diversifyResults(results, 0)
	if len(diversified) != 2 {
		t.Fatalf("expected unmodified results, got %d", len(diversified))
	}
}

func TestDiversifyResultsMissingDocumentID(t *testing.T) {
	// Chunks without a document id count against their own chunk id and
	// are never collapsed together.
	results := []domain.ScoredResult{
		{ChunkID: "c1", Similarity: 0.9},
		{ChunkID: "c2", Similarity: 0.8},
	}

	diversified := diversifyResults(results, 1)
	if len(diversified) != 2 {
		t.Fatalf("expected both orphan chunks kept, got %d", len(diversified))
	}
}
