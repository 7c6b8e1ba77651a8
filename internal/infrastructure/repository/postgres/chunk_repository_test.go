package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/documind-ai/documind/internal/core/domain"
)

func newChunkRepoWithMock(t *testing.T) (*ChunkRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ChunkRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestCreateChunksInsertsInOneTransaction(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO document_chunks")
	mock.ExpectExec("INSERT INTO document_chunks").
		WithArgs("c1", "doc-1", 0, "first", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO document_chunks").
		WithArgs("c2", "doc-1", 1, "second", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	chunks := []domain.ChunkRecord{
		{ID: "c1", DocumentID: "doc-1", Position: 0, Text: "first"},
		{ID: "c2", DocumentID: "doc-1", Position: 1, Text: "second"},
	}
	if err := repo.CreateChunks(context.Background(), chunks); err != nil {
		t.Fatalf("CreateChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateChunksEmptyIsNoop(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	if err := repo.CreateChunks(context.Background(), nil); err != nil {
		t.Fatalf("CreateChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListUnembeddedScansMetadata(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "document_id", "position", "content", "metadata"}).
		AddRow("c1", "doc-1", 0, "text", []byte(`{"document_title":"Handbook"}`))

	mock.ExpectQuery("SELECT id, document_id, position, content, metadata").
		WithArgs(64).
		WillReturnRows(rows)

	chunks, err := repo.ListUnembedded(context.Background(), 64)
	if err != nil {
		t.Fatalf("ListUnembedded() error = %v", err)
	}
	if len(chunks) != 1 || chunks[0].Metadata["document_title"] != "Handbook" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMarkEmbeddedEmptyIsNoop(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	if err := repo.MarkEmbedded(context.Background(), nil); err != nil {
		t.Fatalf("MarkEmbedded() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
