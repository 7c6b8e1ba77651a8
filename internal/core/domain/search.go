package domain

import "time"

// SearchMode selects the retrieval strategy for a query. ModeAuto defers
// the choice to the heuristic selector.
type SearchMode string

const (
	ModeSemantic SearchMode = "semantic"
	ModeKeyword  SearchMode = "keyword"
	ModeHybrid   SearchMode = "hybrid"
	ModeAuto     SearchMode = "auto"
)

// SearchType tags which retrieval channel produced a result.
type SearchType string

const (
	MatchSemantic SearchType = "semantic"
	MatchKeyword  SearchType = "keyword"
	MatchBoth     SearchType = "both"
)

// ChunkMatch is one row returned by the datastore, either from vector
// similarity search (Similarity set) or lexical search (Similarity zero,
// the caller assigns a placeholder).
type ChunkMatch struct {
	ChunkID       string         `json:"chunk_id"`
	DocumentID    string         `json:"document_id"`
	DocumentTitle string         `json:"document_title"`
	Position      int            `json:"position"`
	Text          string         `json:"text"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Similarity    float64        `json:"similarity"`
}

// LexicalKind reports which lexical strategy actually served a query, so
// the fusion layer can assign confidence without catching errors.
type LexicalKind string

const (
	LexicalFullText  LexicalKind = "fulltext"
	LexicalSubstring LexicalKind = "substring"
)

type LexicalResult struct {
	Kind    LexicalKind
	Matches []ChunkMatch
}

// ScoredResult is a ChunkMatch annotated with relevance scores and a
// provenance tag. Similarity holds the contract output score: the raw
// cosine similarity in semantic mode, a placeholder in keyword mode, or
// the fused weighted score after hybrid fusion. RerankScore is additive
// on top of Similarity and may exceed 1.0; it is only used for relative
// ordering. Rank is 1-based and reassigned whenever the list changes.
type ScoredResult struct {
	ChunkID       string         `json:"chunk_id"`
	DocumentID    string         `json:"document_id"`
	DocumentTitle string         `json:"document_title"`
	Position      int            `json:"position"`
	Text          string         `json:"text"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Similarity    float64        `json:"similarity"`
	SearchType    SearchType     `json:"search_type"`
	WeightedScore float64        `json:"weighted_score,omitempty"`
	RerankScore   float64        `json:"rerank_score,omitempty"`
	Rank          int            `json:"rank"`
}

// SearchRequest drives the single production search entry point.
// TopK must be positive; adapters apply their own defaults before calling.
type SearchRequest struct {
	Query          string     `json:"query"`
	Mode           SearchMode `json:"mode"`
	TopK           int        `json:"top_k"`
	ExpandQuery    bool       `json:"expand_query"`
	Diversify      bool       `json:"diversify"`
	MaxPerDocument int        `json:"max_per_document"`
}

type AskRequest struct {
	Question string     `json:"question"`
	Model    string     `json:"model,omitempty"`
	Mode     SearchMode `json:"mode,omitempty"`
	TopK     int        `json:"top_k,omitempty"`
}

// Citation links a [Source N] marker in generated text back to the Nth
// retrieved source.
type Citation struct {
	CitationID int     `json:"citation_id"`
	Document   string  `json:"document"`
	Chunk      int     `json:"chunk"`
	Similarity float64 `json:"similarity"`
}

type CitationSummary struct {
	Citations    []Citation `json:"citations"`
	TotalSources int        `json:"total_sources"`
	CitedCount   int        `json:"cited_count"`
}

// SourceRef is the caller-facing summary of one retrieved source.
type SourceRef struct {
	ChunkID     string  `json:"id"`
	Document    string  `json:"document"`
	Chunk       int     `json:"chunk"`
	Similarity  float64 `json:"similarity"`
	RerankScore float64 `json:"rerank_score,omitempty"`
	Preview     string  `json:"preview"`
}

type AskResult struct {
	Answer        string      `json:"answer"`
	Citations     []Citation  `json:"citations"`
	Sources       []SourceRef `json:"sources"`
	Query         string      `json:"query"`
	Model         string      `json:"model"`
	SearchType    SearchMode  `json:"search_type"`
	ContextChunks int         `json:"context_chunks"`
	ResponseTime  float64     `json:"response_time"`
	Timestamp     time.Time   `json:"timestamp"`
}

type ModelAnswer struct {
	ModelID      string  `json:"model_id"`
	Answer       string  `json:"answer,omitempty"`
	ResponseTime float64 `json:"response_time,omitempty"`
	Status       string  `json:"status"`
	Error        string  `json:"error,omitempty"`
}

type CompareResult struct {
	Query         string                 `json:"query"`
	Sources       []SourceRef            `json:"sources"`
	ContextChunks int                    `json:"context_chunks"`
	Results       map[string]ModelAnswer `json:"results"`
	Timestamp     time.Time              `json:"timestamp"`
}
