package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

type DB struct {
	Pool *pgxpool.Pool
}

func NewDB(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}

// Migrate creates the schema if it does not exist yet. Chunks cascade on
// paper deletion so removing a paper cannot leave orphaned segments behind.
func (d *DB) Migrate(ctx context.Context, embedDim int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS papers (
  paper_id              text PRIMARY KEY,
  filename              text NOT NULL,
  upload_date           timestamptz NOT NULL DEFAULT NOW(),
  status                text NOT NULL,
  fail_reason           text,
  summary               text,
  extracted_definitions jsonb,
  generated_questions   jsonb
)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
  chunk_id    text PRIMARY KEY,
  paper_id    text NOT NULL REFERENCES papers(paper_id) ON DELETE CASCADE,
  chunk_index int NOT NULL,
  page        int NOT NULL DEFAULT 0,
  text        text NOT NULL,
  embedding   vector(%d) NOT NULL,
  created_at  timestamptz NOT NULL DEFAULT NOW()
)`, embedDim),
		`CREATE INDEX IF NOT EXISTS idx_chunks_paper ON chunks(paper_id)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
