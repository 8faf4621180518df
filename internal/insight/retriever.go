package insight

import (
	"context"
	"fmt"

	"paperinsight/internal/models"
	"paperinsight/internal/providers"
	"paperinsight/internal/util"
)

type SegmentSearcher interface {
	SearchChunks(ctx context.Context, paperID string, queryVec []float32, topK int) ([]models.SegmentResult, error)
}

// Retriever embeds a query and returns the top-K most similar segments of a
// single paper, most similar first. No caching across calls.
type Retriever struct {
	embedder providers.EmbeddingProvider
	searcher SegmentSearcher
	embedDim int
	topK     int
}

func NewRetriever(embedder providers.EmbeddingProvider, searcher SegmentSearcher, embedDim, topK int) *Retriever {
	if topK <= 0 {
		topK = 8
	}
	return &Retriever{embedder: embedder, searcher: searcher, embedDim: embedDim, topK: topK}
}

func (r *Retriever) Retrieve(ctx context.Context, paperID, query string) ([]models.SegmentResult, error) {
	vectors, _, err := r.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "feature_query_embed",
		Inputs:    []string{query},
		Dimension: r.embedDim,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrEmbedding, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: provider returned no vectors", util.ErrEmbedding)
	}
	return r.searcher.SearchChunks(ctx, paperID, vectors[0], r.topK)
}
