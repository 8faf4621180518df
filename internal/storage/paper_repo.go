package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"paperinsight/internal/models"
	"paperinsight/internal/util"

	"github.com/jackc/pgx/v5"
)

type PaperRepo struct {
	db *DB
}

func NewPaperRepo(db *DB) *PaperRepo {
	return &PaperRepo{db: db}
}

func (r *PaperRepo) CreatePaper(ctx context.Context, p models.Paper) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO papers (paper_id, filename, status)
VALUES ($1, $2, $3)`,
		p.ID, p.Filename, p.Status,
	)
	if err != nil {
		return fmt.Errorf("insert paper: %w", err)
	}
	return nil
}

func (r *PaperRepo) GetPaper(ctx context.Context, paperID string) (models.Paper, error) {
	row := r.db.Pool.QueryRow(ctx, `
SELECT paper_id, filename, upload_date, status, COALESCE(fail_reason,''),
       summary, extracted_definitions, generated_questions
FROM papers
WHERE paper_id=$1`, paperID)
	p, err := scanPaper(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Paper{}, util.ErrNotFound
	}
	if err != nil {
		return models.Paper{}, fmt.Errorf("get paper: %w", err)
	}
	return p, nil
}

func (r *PaperRepo) ListPapers(ctx context.Context) ([]models.Paper, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT paper_id, filename, upload_date, status, COALESCE(fail_reason,''),
       summary, extracted_definitions, generated_questions
FROM papers
ORDER BY upload_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	out := make([]models.Paper, 0)
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate papers: %w", err)
	}
	return out, nil
}

func (r *PaperRepo) UpdateStatus(ctx context.Context, paperID, status, failReason string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE papers SET status=$2, fail_reason=NULLIF($3,'') WHERE paper_id=$1`,
		paperID, status, failReason)
	if err != nil {
		return fmt.Errorf("update paper status: %w", err)
	}
	return nil
}

// SetSummary persists the summary only if none is stored yet and reports
// whether this call won the write. Losers should re-read the cached value.
func (r *PaperRepo) SetSummary(ctx context.Context, paperID, summary string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE papers SET summary=$2 WHERE paper_id=$1 AND summary IS NULL`,
		paperID, summary)
	if err != nil {
		return false, fmt.Errorf("set summary: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PaperRepo) SetDefinitions(ctx context.Context, paperID string, defs []models.Definition) (bool, error) {
	b, err := json.Marshal(defs)
	if err != nil {
		return false, fmt.Errorf("marshal definitions: %w", err)
	}
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE papers SET extracted_definitions=$2 WHERE paper_id=$1 AND extracted_definitions IS NULL`,
		paperID, b)
	if err != nil {
		return false, fmt.Errorf("set definitions: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PaperRepo) SetQuestions(ctx context.Context, paperID string, questions []models.Question) (bool, error) {
	b, err := json.Marshal(questions)
	if err != nil {
		return false, fmt.Errorf("marshal questions: %w", err)
	}
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE papers SET generated_questions=$2 WHERE paper_id=$1 AND generated_questions IS NULL`,
		paperID, b)
	if err != nil {
		return false, fmt.Errorf("set questions: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeletePaper removes the paper row; its chunks go with it via FK cascade.
func (r *PaperRepo) DeletePaper(ctx context.Context, paperID string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM papers WHERE paper_id=$1`, paperID)
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return util.ErrNotFound
	}
	return nil
}

func scanPaper(row pgx.Row) (models.Paper, error) {
	var (
		p        models.Paper
		defsJSON []byte
		qsJSON   []byte
	)
	if err := row.Scan(&p.ID, &p.Filename, &p.UploadDate, &p.Status, &p.FailReason,
		&p.Summary, &defsJSON, &qsJSON); err != nil {
		return models.Paper{}, err
	}
	if len(defsJSON) > 0 {
		if err := json.Unmarshal(defsJSON, &p.Definitions); err != nil {
			return models.Paper{}, fmt.Errorf("decode definitions: %w", err)
		}
	}
	if len(qsJSON) > 0 {
		if err := json.Unmarshal(qsJSON, &p.Questions); err != nil {
			return models.Paper{}, fmt.Errorf("decode questions: %w", err)
		}
	}
	return p, nil
}
