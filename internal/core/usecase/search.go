package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/documind-ai/documind/internal/core/domain"
	"github.com/documind-ai/documind/internal/core/ports"
)

const (
	defaultMaxPerDocument = 2
	candidateOversample   = 2
)

// SearchService is the retrieval core: mode selection, optional query
// expansion, channel retrieval, fusion, re-ranking, diversification and
// metrics recording behind a single entry point. The two retrieval channels
// run sequentially and both result sets are fully buffered before merging,
// so the semantic-first merge priority is deterministic.
type SearchService struct {
	embedder       ports.Embedder
	store          ports.VectorStore
	semanticWeight float64
	monitor        *PerformanceMonitor
	logger         *slog.Logger
}

func NewSearchService(
	embedder ports.Embedder,
	store ports.VectorStore,
	semanticWeight float64,
	logger *slog.Logger,
) (*SearchService, error) {
	if semanticWeight < 0 || semanticWeight > 1 {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"new search service",
			fmt.Errorf("semantic weight %v must be between 0 and 1", semanticWeight),
		)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		embedder:       embedder,
		store:          store,
		semanticWeight: semanticWeight,
		monitor:        NewPerformanceMonitor(),
		logger:         logger,
	}, nil
}

func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredResult, error) {
	start := time.Now()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", errors.New("query cannot be empty"))
	}
	if req.TopK <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", fmt.Errorf("top_k must be positive, got %d", req.TopK))
	}

	mode := req.Mode
	if mode == "" || mode == domain.ModeAuto {
		mode = SelectSearchMode(query)
	}

	searchQuery := query
	if req.ExpandQuery {
		searchQuery = ExpandQuery(query)
	}

	candidates := req.TopK * candidateOversample

	var results []domain.ScoredResult
	var err error
	switch mode {
	case domain.ModeSemantic:
		results, err = s.searchSemantic(ctx, searchQuery, candidates, semanticSimilarityFloor)
	case domain.ModeKeyword:
		results, err = s.searchKeyword(ctx, searchQuery, candidates)
	case domain.ModeHybrid:
		results, err = s.searchHybrid(ctx, searchQuery, candidates)
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", fmt.Errorf("unknown search mode %q", mode))
	}
	if err != nil {
		return nil, err
	}

	// Rerank against the original query, not the expanded one: expansion
	// terms should improve recall, not inflate boosts.
	results = rerankResults(results, query, 0)

	if req.Diversify {
		maxPerDocument := req.MaxPerDocument
		if maxPerDocument <= 0 {
			maxPerDocument = defaultMaxPerDocument
		}
		results = diversifyResults(results, maxPerDocument)
	}

	if len(results) > req.TopK {
		results = results[:req.TopK]
	}
	assignRanks(results)

	s.recordMetrics(query, mode, start, results)
	return results, nil
}

// searchSemantic embeds the query and runs vector similarity search.
// Results carry the raw cosine similarity; hybrid callers weight it after.
func (s *SearchService) searchSemantic(ctx context.Context, query string, limit int, floor float64) ([]domain.ScoredResult, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.store.Search(ctx, vector, limit, floor)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]domain.ScoredResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, scoredFromMatch(match, match.Similarity, domain.MatchSemantic))
	}
	return results, nil
}

// searchKeyword runs the lexical channel. Full-text and substring outcomes
// both succeed; the placeholder similarity reflects which one served.
func (s *SearchService) searchKeyword(ctx context.Context, query string, limit int) ([]domain.ScoredResult, error) {
	lexical, err := s.store.SearchLexical(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	if lexical.Kind == domain.LexicalSubstring {
		s.logger.Warn("fulltext search unavailable, served by substring scan", "query", query)
	}

	score := lexicalPlaceholderScore(lexical.Kind)
	results := make([]domain.ScoredResult, 0, len(lexical.Matches))
	for _, match := range lexical.Matches {
		results = append(results, scoredFromMatch(match, score, domain.MatchKeyword))
	}
	return results, nil
}

func (s *SearchService) searchHybrid(ctx context.Context, query string, limit int) ([]domain.ScoredResult, error) {
	semantic, err := s.searchSemantic(ctx, query, limit, hybridSimilarityFloor)
	if err != nil {
		return nil, err
	}
	for i := range semantic {
		semantic[i].WeightedScore = semantic[i].Similarity * s.semanticWeight
	}

	keyword, err := s.searchKeyword(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	keywordWeight := 1 - s.semanticWeight
	for i := range keyword {
		keyword[i].WeightedScore = keyword[i].Similarity * keywordWeight
	}

	return fuseResults(semantic, keyword, limit), nil
}

func (s *SearchService) recordMetrics(query string, mode domain.SearchMode, start time.Time, results []domain.ScoredResult) {
	var sum, top float64
	scored := 0
	for _, r := range results {
		if r.Similarity <= 0 {
			continue
		}
		sum += r.Similarity
		if r.Similarity > top {
			top = r.Similarity
		}
		scored++
	}

	avg := 0.0
	if scored > 0 {
		avg = sum / float64(scored)
	}

	s.monitor.Record(domain.QueryMetrics{
		Query:      query,
		Mode:       mode,
		LatencyMS:  float64(time.Since(start).Microseconds()) / 1000,
		NumResults: len(results),
		AvgScore:   avg,
		TopScore:   top,
	})
}

func (s *SearchService) PerformanceReport() domain.PerformanceReport {
	return s.monitor.Report()
}

func (s *SearchService) ResetPerformanceHistory() {
	s.monitor.Reset()
}

func scoredFromMatch(match domain.ChunkMatch, score float64, searchType domain.SearchType) domain.ScoredResult {
	return domain.ScoredResult{
		ChunkID:       match.ChunkID,
		DocumentID:    match.DocumentID,
		DocumentTitle: match.DocumentTitle,
		Position:      match.Position,
		Text:          match.Text,
		Metadata:      match.Metadata,
		Similarity:    score,
		SearchType:    searchType,
	}
}

func assignRanks(results []domain.ScoredResult) {
	for i := range results {
		results[i].Rank = i + 1
	}
}
