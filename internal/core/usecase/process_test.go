package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/documind-ai/documind/internal/core/domain"
)

type chunkRepoFake struct {
	created    []domain.ChunkRecord
	unembedded []domain.ChunkRecord
	marked     []string
	createErr  error
	listErr    error
	markErr    error
}

func (f *chunkRepoFake) CreateChunks(_ context.Context, chunks []domain.ChunkRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, chunks...)
	return nil
}
func (f *chunkRepoFake) ListUnembedded(context.Context, int) ([]domain.ChunkRecord, error) {
	return f.unembedded, f.listErr
}
func (f *chunkRepoFake) MarkEmbedded(_ context.Context, chunkIDs []string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, chunkIDs...)
	return nil
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(_ context.Context, _ string, _ io.Reader) (string, error) {
	return f.text, f.err
}

type chunkerFake struct {
	pieces []string
}

func (f *chunkerFake) Split(string) []string { return f.pieces }

type embedderFake struct {
	vectors [][]float32
	err     error
	texts   []string
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = texts
	if f.err != nil {
		return nil, f.err
	}
	if f.vectors != nil {
		return f.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{0.1}
	}
	return out, nil
}
func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{0.1}, nil
}

type indexStoreFake struct {
	indexed  []domain.ChunkRecord
	indexErr error
}

func (f *indexStoreFake) IndexChunks(_ context.Context, _ *domain.Document, chunks []domain.ChunkRecord, _ [][]float32) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexed = append(f.indexed, chunks...)
	return nil
}
func (f *indexStoreFake) Search(context.Context, []float32, int, float64) ([]domain.ChunkMatch, error) {
	return nil, nil
}
func (f *indexStoreFake) SearchLexical(context.Context, string, int) (domain.LexicalResult, error) {
	return domain.LexicalResult{}, nil
}

func processFixture() (*documentRepoFake, *chunkRepoFake, *storageFake, *embedderFake, *indexStoreFake) {
	repo := &documentRepoFake{doc: &domain.Document{
		ID: "doc-1", Title: "Handbook", Filename: "handbook.txt", StoragePath: "doc-1_handbook.txt",
	}}
	storage := &storageFake{saved: map[string][]byte{"doc-1_handbook.txt": []byte("full text")}}
	return repo, &chunkRepoFake{}, storage, &embedderFake{}, &indexStoreFake{}
}

func TestProcessByIDHappyPath(t *testing.T) {
	repo, chunks, storage, embedder, store := processFixture()
	uc := NewProcessDocumentUseCase(repo, chunks, storage,
		&extractorFake{text: "full text"}, &chunkerFake{pieces: []string{"full", "text"}},
		embedder, store, slog.Default())

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statuses) != 2 || repo.statuses[0] != domain.StatusProcessing || repo.statuses[1] != domain.StatusReady {
		t.Fatalf("unexpected status transitions: %v", repo.statuses)
	}
	if len(chunks.created) != 2 {
		t.Fatalf("expected 2 chunks persisted, got %d", len(chunks.created))
	}
	if chunks.created[0].Position != 0 || chunks.created[1].Position != 1 {
		t.Fatalf("expected sequential positions, got %d, %d", chunks.created[0].Position, chunks.created[1].Position)
	}
	if chunks.created[0].Metadata["document_title"] != "Handbook" {
		t.Fatalf("expected title metadata, got %v", chunks.created[0].Metadata)
	}
	if len(store.indexed) != 2 || len(chunks.marked) != 2 {
		t.Fatalf("expected chunks indexed and marked, got %d indexed, %d marked", len(store.indexed), len(chunks.marked))
	}
}

func TestProcessByIDExtractFailureMarksFailed(t *testing.T) {
	repo, chunks, storage, embedder, store := processFixture()
	uc := NewProcessDocumentUseCase(repo, chunks, storage,
		&extractorFake{err: errors.New("corrupt file")}, &chunkerFake{},
		embedder, store, slog.Default())

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statuses) != 2 || repo.statuses[1] != domain.StatusFailed {
		t.Fatalf("expected failed status recorded, got %v", repo.statuses)
	}
	if repo.lastError == "" {
		t.Fatalf("expected error message persisted")
	}
}

func TestProcessByIDEmbedFailureDefersToBackfill(t *testing.T) {
	repo, chunks, storage, _, store := processFixture()
	embedder := &embedderFake{err: errors.New("provider down")}
	uc := NewProcessDocumentUseCase(repo, chunks, storage,
		&extractorFake{text: "full text"}, &chunkerFake{pieces: []string{"full text"}},
		embedder, store, slog.Default())

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("expected embed failure to be non-fatal, got %v", err)
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusReady {
		t.Fatalf("expected document ready despite deferred indexing, got %v", repo.statuses)
	}
	if len(chunks.created) != 1 {
		t.Fatalf("expected chunks still persisted, got %d", len(chunks.created))
	}
	if len(chunks.marked) != 0 {
		t.Fatalf("expected no chunks marked embedded, got %v", chunks.marked)
	}
}

func TestProcessByIDEmptyTextFails(t *testing.T) {
	repo, chunks, storage, embedder, store := processFixture()
	uc := NewProcessDocumentUseCase(repo, chunks, storage,
		&extractorFake{text: ""}, &chunkerFake{pieces: nil},
		embedder, store, slog.Default())

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error for empty extraction")
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusFailed {
		t.Fatalf("expected failed status, got %v", repo.statuses)
	}
}

func TestProcessByIDMissingDocument(t *testing.T) {
	repo := &documentRepoFake{}
	uc := NewProcessDocumentUseCase(repo, &chunkRepoFake{}, &storageFake{},
		&extractorFake{}, &chunkerFake{}, &embedderFake{}, &indexStoreFake{}, slog.Default())

	err := uc.ProcessByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
