package storage

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

type ChunkRecord struct {
	ChunkID    string
	PaperID    string
	ChunkIndex int
	Page       int
	Text       string
	Embedding  pgvector.Vector
}

type ChunkRepo struct {
	db *DB
}

func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertChunks writes a paper's segments in a single transaction; a failed
// batch leaves nothing behind.
func (r *ChunkRepo) InsertChunks(ctx context.Context, chunks []ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx insert chunks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, c := range chunks {
		_, err := tx.Exec(ctx, `
INSERT INTO chunks (chunk_id, paper_id, chunk_index, page, text, embedding)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (chunk_id) DO NOTHING`,
			c.ChunkID, c.PaperID, c.ChunkIndex, c.Page, c.Text, c.Embedding,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ChunkID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks tx: %w", err)
	}
	return nil
}

// DeleteByPaper drops every segment attributed to the paper. Used as the
// rollback step when processing fails partway through.
func (r *ChunkRepo) DeleteByPaper(ctx context.Context, paperID string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM chunks WHERE paper_id=$1`, paperID); err != nil {
		return fmt.Errorf("delete chunks by paper: %w", err)
	}
	return nil
}
