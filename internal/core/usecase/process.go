package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/documind-ai/documind/internal/core/domain"
	"github.com/documind-ai/documind/internal/core/ports"
)

type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	chunks    ports.ChunkRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	store     ports.VectorStore
	logger    *slog.Logger
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	chunks ports.ChunkRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	store ports.VectorStore,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		chunks:    chunks,
		storage:   storage,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		logger:    logger,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load document %s: %w", documentID, err)
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	if err := uc.process(ctx, doc); err != nil {
		if stErr := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusFailed, err.Error()); stErr != nil {
			uc.logger.Error("failed to record processing error",
				slog.String("document_id", doc.ID),
				slog.String("error", stErr.Error()),
			)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) process(ctx context.Context, doc *domain.Document) error {
	rc, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return fmt.Errorf("open stored file: %w", err)
	}
	defer rc.Close()

	text, err := uc.extractor.Extract(ctx, doc.Filename, rc)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	pieces := uc.chunker.Split(text)
	if len(pieces) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "process document", errors.New("no text content extracted"))
	}

	records := make([]domain.ChunkRecord, 0, len(pieces))
	for i, piece := range pieces {
		records = append(records, domain.ChunkRecord{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Position:   i,
			Text:       piece,
			Metadata: map[string]any{
				"document_title": doc.Title,
				"filename":       doc.Filename,
			},
		})
	}

	if err := uc.chunks.CreateChunks(ctx, records); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}

	// Embedding failures do not fail the document: chunks stay persisted
	// unembedded and the backfill job completes them later.
	if err := uc.indexChunks(ctx, doc, records); err != nil {
		uc.logger.Warn("indexing deferred to backfill",
			slog.String("document_id", doc.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) indexChunks(ctx context.Context, doc *domain.Document, records []domain.ChunkRecord) error {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(records) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(records))
	}

	if err := uc.store.IndexChunks(ctx, doc, records, vectors); err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	if err := uc.chunks.MarkEmbedded(ctx, ids); err != nil {
		return fmt.Errorf("mark chunks embedded: %w", err)
	}
	return nil
}
