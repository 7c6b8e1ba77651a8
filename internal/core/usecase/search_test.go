package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/documind-ai/documind/internal/core/domain"
	"github.com/documind-ai/documind/internal/core/ports"
)

type searchEmbedderFake struct {
	query string
	err   error
}

func (f *searchEmbedderFake) Embed(context.Context, []string) ([][]float32, error) { return nil, nil }
func (f *searchEmbedderFake) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.query = text
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2}, nil
}

type searchStoreFake struct {
	semanticLimit int
	semanticFloor float64
	lexicalQuery  string
	semantic      []domain.ChunkMatch
	lexical       domain.LexicalResult
	semanticErr   error
	lexicalErr    error
}

func (f *searchStoreFake) IndexChunks(context.Context, *domain.Document, []domain.ChunkRecord, [][]float32) error {
	return nil
}
func (f *searchStoreFake) Search(_ context.Context, _ []float32, limit int, minSimilarity float64) ([]domain.ChunkMatch, error) {
	f.semanticLimit = limit
	f.semanticFloor = minSimilarity
	return f.semantic, f.semanticErr
}
func (f *searchStoreFake) SearchLexical(_ context.Context, query string, _ int) (domain.LexicalResult, error) {
	f.lexicalQuery = query
	return f.lexical, f.lexicalErr
}

func newTestSearchService(t *testing.T, embedder ports.Embedder, store ports.VectorStore) *SearchService {
	t.Helper()
	svc, err := NewSearchService(embedder, store, 0.7, slog.Default())
	if err != nil {
		t.Fatalf("NewSearchService() error = %v", err)
	}
	return svc
}

func TestNewSearchServiceRejectsBadWeight(t *testing.T) {
	_, err := NewSearchService(&searchEmbedderFake{}, &searchStoreFake{}, 1.5, nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := newTestSearchService(t, &searchEmbedderFake{}, &searchStoreFake{})

	_, err := svc.Search(context.Background(), domain.SearchRequest{Query: "   ", TopK: 5})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestSearchRejectsNonPositiveTopK(t *testing.T) {
	svc := newTestSearchService(t, &searchEmbedderFake{}, &searchStoreFake{})

	_, err := svc.Search(context.Background(), domain.SearchRequest{Query: "q", TopK: 0})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestSearchSemanticOversamplesAndRanks(t *testing.T) {
	store := &searchStoreFake{
		semantic: []domain.ChunkMatch{
			{ChunkID: "c1", DocumentID: "d1", Text: "a", Similarity: 0.9},
			{ChunkID: "c2", DocumentID: "d2", Text: "b", Similarity: 0.8},
			{ChunkID: "c3", DocumentID: "d3", Text: "c", Similarity: 0.7},
		},
	}
	svc := newTestSearchService(t, &searchEmbedderFake{}, store)

	results, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "benefits overview", Mode: domain.ModeSemantic, TopK: 2,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if store.semanticLimit != 4 {
		t.Fatalf("expected candidate limit 4, got %d", store.semanticLimit)
	}
	if store.semanticFloor != semanticSimilarityFloor {
		t.Fatalf("expected semantic floor %v, got %v", semanticSimilarityFloor, store.semanticFloor)
	}
	if len(results) != 2 {
		t.Fatalf("expected top_k results, got %d", len(results))
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Fatalf("expected ranks assigned, got %d, %d", results[0].Rank, results[1].Rank)
	}
	if results[0].SearchType != domain.MatchSemantic {
		t.Fatalf("expected semantic tag, got %s", results[0].SearchType)
	}
}

func TestSearchKeywordUsesPlaceholderScore(t *testing.T) {
	store := &searchStoreFake{
		lexical: domain.LexicalResult{
			Kind:    domain.LexicalSubstring,
			Matches: []domain.ChunkMatch{{ChunkID: "c1", Text: "pto"}},
		},
	}
	svc := newTestSearchService(t, &searchEmbedderFake{}, store)

	results, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "PTO", Mode: domain.ModeKeyword, TopK: 5,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].Similarity != substringMatchScore {
		t.Fatalf("expected substring placeholder, got %v", results[0].Similarity)
	}
	if results[0].SearchType != domain.MatchKeyword {
		t.Fatalf("expected keyword tag, got %s", results[0].SearchType)
	}
}

func TestSearchHybridFusesChannels(t *testing.T) {
	store := &searchStoreFake{
		semantic: []domain.ChunkMatch{{ChunkID: "c1", DocumentID: "d1", Text: "zq", Similarity: 0.9}},
		lexical: domain.LexicalResult{
			Kind:    domain.LexicalFullText,
			Matches: []domain.ChunkMatch{{ChunkID: "c1", DocumentID: "d1", Text: "zq"}},
		},
	}
	svc := newTestSearchService(t, &searchEmbedderFake{}, store)

	results, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "zq", Mode: domain.ModeHybrid, TopK: 5,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 fused result, got %d", len(results))
	}
	if results[0].SearchType != domain.MatchBoth {
		t.Fatalf("expected both tag, got %s", results[0].SearchType)
	}
	// 0.9*0.7 + 0.8*0.3 = 0.87, within float tolerance.
	if results[0].Similarity < 0.8699 || results[0].Similarity > 0.8701 {
		t.Fatalf("expected fused similarity 0.87, got %v", results[0].Similarity)
	}
	if store.semanticFloor != hybridSimilarityFloor {
		t.Fatalf("expected hybrid floor %v, got %v", hybridSimilarityFloor, store.semanticFloor)
	}
}

func TestSearchAutoModeSelectsKeyword(t *testing.T) {
	store := &searchStoreFake{lexical: domain.LexicalResult{Kind: domain.LexicalFullText}}
	svc := newTestSearchService(t, &searchEmbedderFake{}, store)

	_, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "PTO", Mode: domain.ModeAuto, TopK: 5,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if store.lexicalQuery == "" {
		t.Fatalf("expected keyword channel used for acronym query")
	}
}

func TestSearchExpandsQueryForRetrievalOnly(t *testing.T) {
	embedder := &searchEmbedderFake{}
	store := &searchStoreFake{
		semantic: []domain.ChunkMatch{{ChunkID: "c1", Text: "paid time off policy", Similarity: 0.6}},
	}
	svc := newTestSearchService(t, embedder, store)

	results, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "vacation", Mode: domain.ModeSemantic, TopK: 5, ExpandQuery: true,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if embedder.query == "vacation" {
		t.Fatalf("expected expanded query passed to embedder")
	}
	// Rerank boosts come from the original term only: "vacation" is absent
	// from the text, so no keyword boost applies despite synonym overlap.
	if results[0].RerankScore != results[0].Similarity {
		t.Fatalf("expected no boost from expansion terms, got %v over %v",
			results[0].RerankScore, results[0].Similarity)
	}
}

func TestSearchDiversifyDefaultsCap(t *testing.T) {
	store := &searchStoreFake{
		semantic: []domain.ChunkMatch{
			{ChunkID: "c1", DocumentID: "d1", Similarity: 0.9},
			{ChunkID: "c2", DocumentID: "d1", Similarity: 0.8},
			{ChunkID: "c3", DocumentID: "d1", Similarity: 0.7},
			{ChunkID: "c4", DocumentID: "d2", Similarity: 0.6},
		},
	}
	svc := newTestSearchService(t, &searchEmbedderFake{}, store)

	results, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "team updates", Mode: domain.ModeSemantic, TopK: 10, Diversify: true,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected default per-document cap of 2, got %d results", len(results))
	}
}

func TestSearchPropagatesEmbedError(t *testing.T) {
	svc := newTestSearchService(t, &searchEmbedderFake{err: errors.New("provider down")}, &searchStoreFake{})

	_, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "anything at all", Mode: domain.ModeSemantic, TopK: 5,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestSearchRecordsMetrics(t *testing.T) {
	store := &searchStoreFake{
		semantic: []domain.ChunkMatch{{ChunkID: "c1", Similarity: 0.9}},
	}
	svc := newTestSearchService(t, &searchEmbedderFake{}, store)

	if _, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: "benefits", Mode: domain.ModeSemantic, TopK: 5,
	}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	report := svc.PerformanceReport()
	if report.TotalQueries != 1 {
		t.Fatalf("expected 1 recorded query, got %d", report.TotalQueries)
	}

	svc.ResetPerformanceHistory()
	if report := svc.PerformanceReport(); report.TotalQueries != 0 {
		t.Fatalf("expected history cleared, got %d", report.TotalQueries)
	}
}
