package vector

import (
	"context"
	"fmt"

	"paperinsight/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Searcher runs nearest-neighbor queries over the shared chunks table.
// Every search is scoped to a single paper; the filter is part of the SQL
// predicate, not something callers can forget to apply.
type Searcher struct {
	q Queryer
}

func NewSearcher(q Queryer) *Searcher {
	return &Searcher{q: q}
}

func (s *Searcher) SearchChunks(ctx context.Context, paperID string, queryVec []float32, topK int) ([]models.SegmentResult, error) {
	if topK <= 0 {
		topK = 8
	}
	rows, err := s.q.Query(ctx, `
SELECT paper_id,
       chunk_id,
       chunk_index,
       text,
       1 - (embedding <=> $2) AS score
FROM chunks
WHERE paper_id = $1
ORDER BY embedding <=> $2
LIMIT $3`, paperID, pgvector.NewVector(queryVec), topK)
	if err != nil {
		return nil, fmt.Errorf("query vector search: %w", err)
	}
	defer rows.Close()

	results := make([]models.SegmentResult, 0, topK)
	for rows.Next() {
		var r models.SegmentResult
		if err := rows.Scan(&r.PaperID, &r.ChunkID, &r.ChunkIndex, &r.Text, &r.Score); err != nil {
			return nil, fmt.Errorf("scan chunk result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return results, nil
}
