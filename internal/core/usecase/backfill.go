package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/documind-ai/documind/internal/core/domain"
	"github.com/documind-ai/documind/internal/core/ports"
)

const backfillBatchSize = 64

// BackfillService embeds and indexes chunks that were persisted without
// vectors, usually because the embedding provider was unavailable during
// document processing.
type BackfillService struct {
	chunks   ports.ChunkRepository
	docs     ports.DocumentRepository
	embedder ports.Embedder
	store    ports.VectorStore
	logger   *slog.Logger
}

func NewBackfillService(
	chunks ports.ChunkRepository,
	docs ports.DocumentRepository,
	embedder ports.Embedder,
	store ports.VectorStore,
	logger *slog.Logger,
) *BackfillService {
	return &BackfillService{
		chunks:   chunks,
		docs:     docs,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

func (s *BackfillService) Backfill(ctx context.Context) (int, error) {
	pending, err := s.chunks.ListUnembedded(ctx, backfillBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list unembedded chunks: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	byDocument := make(map[string][]domain.ChunkRecord)
	for _, rec := range pending {
		byDocument[rec.DocumentID] = append(byDocument[rec.DocumentID], rec)
	}

	var completed int
	for documentID, records := range byDocument {
		doc, err := s.docs.GetByID(ctx, documentID)
		if err != nil {
			s.logger.Warn("skipping backfill for missing document",
				slog.String("document_id", documentID),
				slog.String("error", err.Error()),
			)
			continue
		}

		texts := make([]string, len(records))
		for i, r := range records {
			texts[i] = r.Text
		}
		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return completed, fmt.Errorf("embed chunks for document %s: %w", documentID, err)
		}
		if len(vectors) != len(records) {
			return completed, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(records))
		}

		if err := s.store.IndexChunks(ctx, doc, records, vectors); err != nil {
			return completed, fmt.Errorf("index chunks for document %s: %w", documentID, err)
		}

		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.ID
		}
		if err := s.chunks.MarkEmbedded(ctx, ids); err != nil {
			return completed, fmt.Errorf("mark chunks embedded: %w", err)
		}
		completed += len(records)
	}
	return completed, nil
}
