package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/documind-ai/documind/internal/core/domain"
)

type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) CreateChunks(ctx context.Context, chunks []domain.ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunks tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO document_chunks (id, document_id, position, content, metadata, embedded)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (document_id, position) DO UPDATE
SET content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedded = EXCLUDED.embedded
`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshal chunk metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.DocumentID, chunk.Position, chunk.Text, metadataJSON, chunk.Embedded,
		); err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunks tx: %w", err)
	}
	return nil
}

func (r *ChunkRepository) ListUnembedded(ctx context.Context, limit int) ([]domain.ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, position, content, metadata
FROM document_chunks
WHERE NOT embedded
ORDER BY document_id, position
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unembedded chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.ChunkRecord
	for rows.Next() {
		var chunk domain.ChunkRecord
		var metadataRaw []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position, &chunk.Text, &metadataRaw); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if len(metadataRaw) > 0 {
			if err := json.Unmarshal(metadataRaw, &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal chunk metadata: %w", err)
			}
		}
		out = append(out, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return out, nil
}

func (r *ChunkRepository) MarkEmbedded(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE document_chunks
SET embedded = TRUE
WHERE id = ANY($1)
`, chunkIDs)
	if err != nil {
		return fmt.Errorf("mark chunks embedded: %w", err)
	}
	return nil
}
