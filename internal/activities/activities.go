package activities

import (
	"context"
	"fmt"
	"os"

	"paperinsight/internal/config"
	"paperinsight/internal/pdfio"
	"paperinsight/internal/providers"
	"paperinsight/internal/storage"
	"paperinsight/internal/util"

	"github.com/pgvector/pgvector-go"
	"go.temporal.io/sdk/temporal"
)

type Activities struct {
	cfg       config.Config
	paperRepo *storage.PaperRepo
	chunkRepo *storage.ChunkRepo
	providers *providers.Manager
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Activities{
		cfg:       cfg,
		paperRepo: storage.NewPaperRepo(db),
		chunkRepo: storage.NewChunkRepo(db),
		providers: pm,
	}, nil
}

func (a *Activities) ExtractPagesActivity(ctx context.Context, in ExtractPagesInput) (ExtractPagesOutput, error) {
	_ = ctx
	pages, err := pdfio.LoadPages(in.PaperPath)
	if err != nil {
		// A PDF that cannot be parsed or has no text will not improve on retry.
		return ExtractPagesOutput{}, temporal.NewNonRetryableApplicationError(err.Error(), "extract_failed", err)
	}
	return ExtractPagesOutput{Pages: pages}, nil
}

func (a *Activities) ChunkPagesActivity(ctx context.Context, in ChunkPagesInput) (ChunkPagesOutput, error) {
	_ = ctx
	splitter := util.NewSplitter(in.ChunkSize, in.ChunkOverlap, nil)
	chunks := make([]ChunkItem, 0)
	idx := 0
	for _, page := range in.Pages {
		for _, text := range splitter.Split(page.Text) {
			chunks = append(chunks, ChunkItem{
				ChunkID:    util.SHA256Hex([]byte(fmt.Sprintf("%s:%d:%s", in.PaperID, idx, text))),
				PaperID:    in.PaperID,
				ChunkIndex: idx,
				Page:       page.Number,
				Text:       text,
			})
			idx++
		}
	}
	return ChunkPagesOutput{Chunks: chunks}, nil
}

func (a *Activities) EmbedChunksActivity(ctx context.Context, in EmbedChunksInput) (EmbedChunksOutput, error) {
	inputs := make([]string, 0, len(in.Input))
	for _, c := range in.Input {
		inputs = append(inputs, c.Text)
	}
	provider := a.providers.Embedder()
	vectors, info, err := provider.Embed(ctx, providers.EmbedRequest{
		Operation: in.Operation,
		Inputs:    inputs,
		Dimension: a.cfg.EmbedDim,
	})
	if err != nil {
		if et := providers.ClassifyError(err); !et.Retryable() {
			return EmbedChunksOutput{}, temporal.NewNonRetryableApplicationError(err.Error(), string(et), err)
		}
		return EmbedChunksOutput{}, err
	}
	if len(vectors) != len(inputs) {
		return EmbedChunksOutput{}, fmt.Errorf("embedding provider returned %d vectors for %d inputs", len(vectors), len(inputs))
	}
	return EmbedChunksOutput{
		Vectors:      vectors,
		ProviderName: info.Name,
		Model:        info.Model,
	}, nil
}

func (a *Activities) InsertChunksActivity(ctx context.Context, in InsertChunksInput) error {
	if len(in.Chunks) != len(in.Vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(in.Chunks), len(in.Vectors))
	}
	records := make([]storage.ChunkRecord, 0, len(in.Chunks))
	for i, c := range in.Chunks {
		records = append(records, storage.ChunkRecord{
			ChunkID:    c.ChunkID,
			PaperID:    c.PaperID,
			ChunkIndex: c.ChunkIndex,
			Page:       c.Page,
			Text:       c.Text,
			Embedding:  pgvector.NewVector(in.Vectors[i]),
		})
	}
	return a.chunkRepo.InsertChunks(ctx, records)
}

func (a *Activities) UpdatePaperStatusActivity(ctx context.Context, in UpdatePaperStatusInput) error {
	return a.paperRepo.UpdateStatus(ctx, in.PaperID, in.Status, in.FailReason)
}

func (a *Activities) DeletePaperChunksActivity(ctx context.Context, in DeletePaperChunksInput) error {
	return a.chunkRepo.DeleteByPaper(ctx, in.PaperID)
}

func (a *Activities) RemoveStagedFileActivity(ctx context.Context, in RemoveStagedFileInput) error {
	_ = ctx
	if err := os.Remove(in.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
