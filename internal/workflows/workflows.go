package workflows

import (
	"time"

	"paperinsight/internal/activities"
	"paperinsight/internal/models"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const QueryGetPaperStatus = "GetPaperStatus"

// PaperProcessWorkflow drives a single uploaded paper through extraction,
// chunking, embedding, and indexing. It never fails the workflow itself: any
// activity error marks the paper failed in the database, rolls back partially
// inserted chunks, and removes the staged file, so the API always has a
// terminal paper status to report.
func PaperProcessWorkflow(ctx workflow.Context, input PaperProcessInput) (string, error) {
	status := PaperStatus{
		PaperID:     input.PaperID,
		PaperPath:   input.PaperPath,
		CurrentStep: "init",
		Status:      "processing",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetPaperStatus, func() (PaperStatus, error) {
		return status, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	status.CurrentStep = "extract_pages"
	status.Steps[status.CurrentStep] = "processing"
	var extractOut activities.ExtractPagesOutput
	if err := workflow.ExecuteActivity(ctx, "ExtractPagesActivity", activities.ExtractPagesInput{PaperPath: input.PaperPath}).Get(ctx, &extractOut); err != nil {
		return failPaper(ctx, &status, input, err)
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "chunk_pages"
	status.Steps[status.CurrentStep] = "processing"
	var chunkOut activities.ChunkPagesOutput
	if err := workflow.ExecuteActivity(ctx, "ChunkPagesActivity", activities.ChunkPagesInput{
		PaperID:      input.PaperID,
		Pages:        extractOut.Pages,
		ChunkSize:    input.ChunkSize,
		ChunkOverlap: input.ChunkOverlap,
	}).Get(ctx, &chunkOut); err != nil {
		return failPaper(ctx, &status, input, err)
	}
	status.Chunks = len(chunkOut.Chunks)
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "embed_chunks"
	status.Steps[status.CurrentStep] = "processing"
	var embedOut activities.EmbedChunksOutput
	if err := workflow.ExecuteActivity(ctx, "EmbedChunksActivity", activities.EmbedChunksInput{
		Operation: "index_paper",
		PaperID:   input.PaperID,
		Input:     chunkOut.Chunks,
	}).Get(ctx, &embedOut); err != nil {
		return failPaper(ctx, &status, input, err)
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "insert_chunks"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "InsertChunksActivity", activities.InsertChunksInput{
		Chunks:  chunkOut.Chunks,
		Vectors: embedOut.Vectors,
	}).Get(ctx, nil); err != nil {
		return failPaper(ctx, &status, input, err)
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "finalize"
	if err := workflow.ExecuteActivity(ctx, "UpdatePaperStatusActivity", activities.UpdatePaperStatusInput{
		PaperID: input.PaperID,
		Status:  models.StatusProcessed,
	}).Get(ctx, nil); err != nil {
		return failPaper(ctx, &status, input, err)
	}
	removeStagedFile(ctx, input.PaperPath)

	status.Status = models.StatusProcessed
	status.CurrentStep = "done"
	return status.Status, nil
}

// failPaper is the single terminal path for a broken pipeline run: roll back
// any chunks written for the paper, record the failure reason, and remove the
// staged upload.
func failPaper(ctx workflow.Context, status *PaperStatus, input PaperProcessInput, cause error) (string, error) {
	status.Status = models.StatusFailed
	status.FailReason = cause.Error()
	status.Steps[status.CurrentStep] = "failed"

	_ = workflow.ExecuteActivity(ctx, "DeletePaperChunksActivity", activities.DeletePaperChunksInput{
		PaperID: input.PaperID,
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "UpdatePaperStatusActivity", activities.UpdatePaperStatusInput{
		PaperID:    input.PaperID,
		Status:     models.StatusFailed,
		FailReason: status.FailReason,
	}).Get(ctx, nil)
	removeStagedFile(ctx, input.PaperPath)

	return status.Status, nil
}

func removeStagedFile(ctx workflow.Context, path string) {
	_ = workflow.ExecuteActivity(ctx, "RemoveStagedFileActivity", activities.RemoveStagedFileInput{
		Path: path,
	}).Get(ctx, nil)
}
