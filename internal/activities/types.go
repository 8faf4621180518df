package activities

import "paperinsight/internal/pdfio"

type ExtractPagesInput struct {
	PaperPath string `json:"paper_path"`
}

type ExtractPagesOutput struct {
	Pages []pdfio.Page `json:"pages"`
}

type ChunkPagesInput struct {
	PaperID      string       `json:"paper_id"`
	Pages        []pdfio.Page `json:"pages"`
	ChunkSize    int          `json:"chunk_size"`
	ChunkOverlap int          `json:"chunk_overlap"`
}

type ChunkItem struct {
	ChunkID    string `json:"chunk_id"`
	PaperID    string `json:"paper_id"`
	ChunkIndex int    `json:"chunk_index"`
	Page       int    `json:"page"`
	Text       string `json:"text"`
}

type ChunkPagesOutput struct {
	Chunks []ChunkItem `json:"chunks"`
}

type EmbedChunksInput struct {
	Operation string      `json:"operation"`
	PaperID   string      `json:"paper_id"`
	Input     []ChunkItem `json:"input"`
}

type EmbedChunksOutput struct {
	Vectors      [][]float32 `json:"vectors"`
	ProviderName string      `json:"provider_name"`
	Model        string      `json:"model"`
}

type InsertChunksInput struct {
	Chunks  []ChunkItem `json:"chunks"`
	Vectors [][]float32 `json:"vectors"`
}

type UpdatePaperStatusInput struct {
	PaperID    string `json:"paper_id"`
	Status     string `json:"status"`
	FailReason string `json:"fail_reason"`
}

type DeletePaperChunksInput struct {
	PaperID string `json:"paper_id"`
}

type RemoveStagedFileInput struct {
	Path string `json:"path"`
}
