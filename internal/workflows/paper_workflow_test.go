package workflows

import (
	"context"
	"errors"
	"testing"

	"paperinsight/internal/activities"
	"paperinsight/internal/pdfio"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func newPaperEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(PaperProcessWorkflow)
	registerActivityName(env, "ExtractPagesActivity", func(context.Context, activities.ExtractPagesInput) (activities.ExtractPagesOutput, error) {
		return activities.ExtractPagesOutput{}, nil
	})
	registerActivityName(env, "ChunkPagesActivity", func(context.Context, activities.ChunkPagesInput) (activities.ChunkPagesOutput, error) {
		return activities.ChunkPagesOutput{}, nil
	})
	registerActivityName(env, "EmbedChunksActivity", func(context.Context, activities.EmbedChunksInput) (activities.EmbedChunksOutput, error) {
		return activities.EmbedChunksOutput{}, nil
	})
	registerActivityName(env, "InsertChunksActivity", func(context.Context, activities.InsertChunksInput) error { return nil })
	registerActivityName(env, "UpdatePaperStatusActivity", func(context.Context, activities.UpdatePaperStatusInput) error { return nil })
	registerActivityName(env, "DeletePaperChunksActivity", func(context.Context, activities.DeletePaperChunksInput) error { return nil })
	registerActivityName(env, "RemoveStagedFileActivity", func(context.Context, activities.RemoveStagedFileInput) error { return nil })
	return env
}

func TestPaperProcessWorkflowSuccess(t *testing.T) {
	env := newPaperEnv(t)

	env.OnActivity("ExtractPagesActivity", mock.Anything, activities.ExtractPagesInput{PaperPath: "/tmp/staged/p1.pdf"}).
		Return(activities.ExtractPagesOutput{Pages: []pdfio.Page{{Number: 1, Text: "abstract and body"}}}, nil)
	env.OnActivity("ChunkPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ChunkPagesOutput{Chunks: []activities.ChunkItem{{ChunkID: "c1", PaperID: "p1", ChunkIndex: 0, Page: 1, Text: "abstract and body"}}}, nil)
	env.OnActivity("EmbedChunksActivity", mock.Anything, mock.Anything).
		Return(activities.EmbedChunksOutput{Vectors: [][]float32{{0.1, 0.2}}, ProviderName: "mock", Model: "mock"}, nil)
	env.OnActivity("InsertChunksActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("UpdatePaperStatusActivity", mock.Anything, activities.UpdatePaperStatusInput{PaperID: "p1", Status: "processed"}).Return(nil)
	env.OnActivity("RemoveStagedFileActivity", mock.Anything, activities.RemoveStagedFileInput{Path: "/tmp/staged/p1.pdf"}).Return(nil)

	env.ExecuteWorkflow(PaperProcessWorkflow, PaperProcessInput{
		PaperID:      "p1",
		PaperPath:    "/tmp/staged/p1.pdf",
		Filename:     "paper.pdf",
		ChunkSize:    1000,
		ChunkOverlap: 200,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "processed", out)
	env.AssertExpectations(t)
}

func TestPaperProcessWorkflowExtractFailure(t *testing.T) {
	env := newPaperEnv(t)

	env.OnActivity("ExtractPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractPagesOutput{}, errors.New("no extractable text found in PDF"))
	env.OnActivity("DeletePaperChunksActivity", mock.Anything, activities.DeletePaperChunksInput{PaperID: "p1"}).Return(nil)
	env.OnActivity("UpdatePaperStatusActivity", mock.Anything, mock.MatchedBy(func(in activities.UpdatePaperStatusInput) bool {
		return in.PaperID == "p1" && in.Status == "failed" && in.FailReason != ""
	})).Return(nil)
	env.OnActivity("RemoveStagedFileActivity", mock.Anything, activities.RemoveStagedFileInput{Path: "/tmp/staged/p1.pdf"}).Return(nil)

	env.ExecuteWorkflow(PaperProcessWorkflow, PaperProcessInput{
		PaperID:   "p1",
		PaperPath: "/tmp/staged/p1.pdf",
		Filename:  "paper.pdf",
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
	// The staged file is removed on both the success and failure paths.
	env.AssertExpectations(t)
}

func TestPaperProcessWorkflowInsertFailureRollsBack(t *testing.T) {
	env := newPaperEnv(t)

	env.OnActivity("ExtractPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractPagesOutput{Pages: []pdfio.Page{{Number: 1, Text: "text"}}}, nil)
	env.OnActivity("ChunkPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ChunkPagesOutput{Chunks: []activities.ChunkItem{{ChunkID: "c1", PaperID: "p1", ChunkIndex: 0, Text: "text"}}}, nil)
	env.OnActivity("EmbedChunksActivity", mock.Anything, mock.Anything).
		Return(activities.EmbedChunksOutput{Vectors: [][]float32{{0.5}}}, nil)
	env.OnActivity("InsertChunksActivity", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	env.OnActivity("DeletePaperChunksActivity", mock.Anything, activities.DeletePaperChunksInput{PaperID: "p1"}).Return(nil)
	env.OnActivity("UpdatePaperStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("RemoveStagedFileActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(PaperProcessWorkflow, PaperProcessInput{PaperID: "p1", PaperPath: "/tmp/staged/p1.pdf"})
	require.True(t, env.IsWorkflowCompleted())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
	env.AssertExpectations(t)
}
