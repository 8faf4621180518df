package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"paperinsight/internal/config"
	"paperinsight/internal/models"
	"paperinsight/internal/util"
	"paperinsight/internal/workflows"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	tclient "go.temporal.io/sdk/client"
)

// PaperStore is the slice of storage.PaperRepo the API needs.
type PaperStore interface {
	CreatePaper(ctx context.Context, p models.Paper) error
	GetPaper(ctx context.Context, paperID string) (models.Paper, error)
	ListPapers(ctx context.Context) ([]models.Paper, error)
	DeletePaper(ctx context.Context, paperID string) error
}

// InsightService is the slice of insight.Service the API needs.
type InsightService interface {
	Summarize(ctx context.Context, paperID string) (string, error)
	ExtractDefinitions(ctx context.Context, paperID string) ([]models.Definition, error)
	GenerateQuestions(ctx context.Context, paperID string) ([]models.Question, error)
}

// WorkflowStarter starts the background processing pipeline for one paper.
type WorkflowStarter interface {
	StartPaperProcess(ctx context.Context, input workflows.PaperProcessInput) error
}

type temporalStarter struct {
	client    tclient.Client
	taskQueue string
}

func (t temporalStarter) StartPaperProcess(ctx context.Context, input workflows.PaperProcessInput) error {
	_, err := t.client.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:        "paper-" + input.PaperID,
		TaskQueue: t.taskQueue,
	}, workflows.PaperProcessWorkflow, input)
	return err
}

func NewTemporalStarter(c tclient.Client, taskQueue string) WorkflowStarter {
	return temporalStarter{client: c, taskQueue: taskQueue}
}

type Server struct {
	cfg     config.Config
	papers  PaperStore
	insight InsightService
	starter WorkflowStarter
	logger  *slog.Logger
}

func NewServer(cfg config.Config, papers PaperStore, insight InsightService, starter WorkflowStarter) *Server {
	return &Server{
		cfg:     cfg,
		papers:  papers,
		insight: insight,
		starter: starter,
		logger:  slog.Default().With("component", "api"),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.cors)

	r.Get("/", s.handleRoot)
	r.Post("/upload-paper", s.handleUpload)
	r.Get("/papers", s.handleListPapers)
	r.Route("/papers/{paperID}", func(r chi.Router) {
		r.Get("/", s.handleGetPaper)
		r.Delete("/", s.handleDeletePaper)
		r.Post("/summarize", s.handleSummarize)
		r.Post("/extract-definitions", s.handleExtractDefinitions)
		r.Post("/generate-questions", s.handleGenerateQuestions)
	})
	return r
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.FrontendOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Paper insight backend is running"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeErr(w, fmt.Errorf("%w: parse multipart: %v", util.ErrValidation, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, fmt.Errorf("%w: file field is required", util.ErrValidation))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeErr(w, fmt.Errorf("%w: only PDF files are supported", util.ErrValidation))
		return
	}

	if err := util.EnsureDir(s.cfg.UploadDir); err != nil {
		writeErr(w, err)
		return
	}
	paperID := uuid.NewString()
	stagedPath := util.SafeJoin(s.cfg.UploadDir, paperID+".pdf")
	if err := saveUploadedFile(stagedPath, file); err != nil {
		writeErr(w, err)
		return
	}

	if err := s.papers.CreatePaper(r.Context(), models.Paper{
		ID:       paperID,
		Filename: header.Filename,
		Status:   models.StatusPending,
	}); err != nil {
		_ = os.Remove(stagedPath)
		writeErr(w, err)
		return
	}

	if err := s.starter.StartPaperProcess(r.Context(), workflows.PaperProcessInput{
		PaperID:      paperID,
		PaperPath:    stagedPath,
		Filename:     header.Filename,
		ChunkSize:    s.cfg.ChunkSize,
		ChunkOverlap: s.cfg.ChunkOverlap,
	}); err != nil {
		writeErr(w, err)
		return
	}

	s.logger.Info("paper accepted", "paper_id", paperID, "filename", header.Filename)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"message":  "File uploaded successfully, processing started.",
		"paper_id": paperID,
	})
}

func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := s.papers.ListPapers(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, papers)
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	paper, err := s.papers.GetPaper(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paper)
}

func (s *Server) handleDeletePaper(w http.ResponseWriter, r *http.Request) {
	if err := s.papers.DeletePaper(r.Context(), chi.URLParam(r, "paperID")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Paper deleted"})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	summary, err := s.insight.Summarize(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) handleExtractDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := s.insight.ExtractDefinitions(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"extracted_definitions": defs})
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.insight.GenerateQuestions(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"generated_questions": questions})
}

func saveUploadedFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create staged file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("save staged file: %w", err)
	}
	return nil
}
