package ports

import (
	"context"
	"io"
	"time"

	"github.com/documind-ai/documind/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
}

// ChunkRepository persists chunk records. Chunks are created once during
// processing and read back by the embedding backfill.
type ChunkRepository interface {
	CreateChunks(ctx context.Context, chunks []domain.ChunkRecord) error
	ListUnembedded(ctx context.Context, limit int) ([]domain.ChunkRecord, error)
	MarkEmbedded(ctx context.Context, chunkIDs []string) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document. The filename
// extension selects the concrete extractor.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Chunker splits text into retrievable chunks.
type Chunker interface {
	Split(text string) []string
}

// Embedder builds vectors for chunks and query text. EmbedQuery rejects
// empty input with domain.ErrInvalidInput.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunk vectors and serves both retrieval channels.
// SearchLexical reports which lexical strategy served the query instead of
// signaling full-text failure through an error; a degraded substring scan
// is a valid outcome, not a fault.
type VectorStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.ChunkRecord, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int, minSimilarity float64) ([]domain.ChunkMatch, error)
	SearchLexical(ctx context.Context, query string, limit int) (domain.LexicalResult, error)
}

// CompletionProvider generates text from a prompt.
type CompletionProvider interface {
	Complete(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error)
}

// QueryLogStore persists per-question analytics records. Write failures
// must never abort the answer path; callers log and continue.
type QueryLogStore interface {
	Insert(ctx context.Context, entry domain.QueryLogEntry) error
	ListSince(ctx context.Context, since time.Time) ([]domain.QueryLogEntry, error)
}
