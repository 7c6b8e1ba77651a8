package ports

import (
	"context"
	"io"

	"github.com/documind-ai/documind/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentSearcher is the inbound contract for the retrieval core.
type DocumentSearcher interface {
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredResult, error)
	PerformanceReport() domain.PerformanceReport
	ResetPerformanceHistory()
}

// QuestionAnswerer is the inbound contract for retrieval-augmented answering.
type QuestionAnswerer interface {
	Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error)
	Compare(ctx context.Context, question string, models []string) (*domain.CompareResult, error)
}

// AnalyticsReader aggregates persisted query logs.
type AnalyticsReader interface {
	QueryAnalytics(ctx context.Context, days int) (*domain.QueryAnalytics, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// EmbeddingBackfiller embeds and indexes chunks that are missing vectors.
type EmbeddingBackfiller interface {
	Backfill(ctx context.Context) (int, error)
}
