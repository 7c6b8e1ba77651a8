package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/documind-ai/documind/internal/core/domain"
)

type QueryLogRepository struct {
	db *sql.DB
}

func NewQueryLogRepository(db *sql.DB) *QueryLogRepository {
	return &QueryLogRepository{db: db}
}

func (r *QueryLogRepository) Insert(ctx context.Context, entry domain.QueryLogEntry) error {
	sourcesJSON, err := json.Marshal(entry.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO query_logs (question, answer, model, sources, response_time, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`,
		entry.Question, entry.Answer, entry.Model, sourcesJSON, entry.ResponseTime, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}
	return nil
}

func (r *QueryLogRepository) ListSince(ctx context.Context, since time.Time) ([]domain.QueryLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT question, answer, model, sources, response_time, created_at
FROM query_logs
WHERE created_at >= $1
ORDER BY created_at DESC
`, since)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var out []domain.QueryLogEntry
	for rows.Next() {
		var entry domain.QueryLogEntry
		var sourcesRaw []byte
		if err := rows.Scan(
			&entry.Question, &entry.Answer, &entry.Model, &sourcesRaw, &entry.ResponseTime, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		if len(sourcesRaw) > 0 {
			if err := json.Unmarshal(sourcesRaw, &entry.Sources); err != nil {
				return nil, fmt.Errorf("unmarshal sources: %w", err)
			}
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query logs: %w", err)
	}
	return out, nil
}
