// Package insight orchestrates the retrieve-then-generate features: summary,
// key-term definitions, and practice questions for a processed paper.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"paperinsight/internal/models"
	"paperinsight/internal/providers"
	"paperinsight/internal/util"

	"golang.org/x/sync/singleflight"
)

type PaperStore interface {
	GetPaper(ctx context.Context, paperID string) (models.Paper, error)
	SetSummary(ctx context.Context, paperID, summary string) (bool, error)
	SetDefinitions(ctx context.Context, paperID string, defs []models.Definition) (bool, error)
	SetQuestions(ctx context.Context, paperID string, questions []models.Question) (bool, error)
}

type ContextRetriever interface {
	Retrieve(ctx context.Context, paperID, query string) ([]models.SegmentResult, error)
}

type Service struct {
	papers    PaperStore
	retriever ContextRetriever
	llm       providers.LLMProvider
	group     singleflight.Group
	logger    *slog.Logger
}

func NewService(papers PaperStore, retriever ContextRetriever, llm providers.LLMProvider) *Service {
	return &Service{
		papers:    papers,
		retriever: retriever,
		llm:       llm,
		logger:    slog.Default(),
	}
}

// Summarize returns the paper's summary, generating and caching it on first
// call. Cached values are returned without touching the model again.
func (s *Service) Summarize(ctx context.Context, paperID string) (string, error) {
	paper, err := s.readyPaper(ctx, paperID)
	if err != nil {
		return "", err
	}
	if paper.Summary != nil {
		return *paper.Summary, nil
	}
	v, err, _ := s.group.Do("summarize:"+paperID, func() (any, error) {
		return s.generateSummary(ctx, paperID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Service) ExtractDefinitions(ctx context.Context, paperID string) ([]models.Definition, error) {
	paper, err := s.readyPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if paper.Definitions != nil {
		return paper.Definitions, nil
	}
	v, err, _ := s.group.Do("definitions:"+paperID, func() (any, error) {
		return s.generateDefinitions(ctx, paperID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Definition), nil
}

func (s *Service) GenerateQuestions(ctx context.Context, paperID string) ([]models.Question, error) {
	paper, err := s.readyPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if paper.Questions != nil {
		return paper.Questions, nil
	}
	v, err, _ := s.group.Do("questions:"+paperID, func() (any, error) {
		return s.generateQuestions(ctx, paperID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Question), nil
}

// readyPaper resolves the paper and checks it is ready for feature requests.
// A missing paper and a not-yet-processed paper both read as not found to
// the HTTP layer.
func (s *Service) readyPaper(ctx context.Context, paperID string) (models.Paper, error) {
	paper, err := s.papers.GetPaper(ctx, paperID)
	if err != nil {
		return models.Paper{}, err
	}
	if paper.Status != models.StatusProcessed {
		return models.Paper{}, fmt.Errorf("paper %s has status %s: %w", paperID, paper.Status, util.ErrNotProcessed)
	}
	return paper, nil
}

func (s *Service) generateSummary(ctx context.Context, paperID string) (string, error) {
	text, err := s.generate(ctx, paperID, "summarize", summaryQuery, summaryPrompt)
	if err != nil {
		return "", err
	}
	won, err := s.papers.SetSummary(ctx, paperID, text)
	if err != nil {
		return "", err
	}
	if !won {
		// Lost the write race; the stored value is authoritative.
		paper, err := s.papers.GetPaper(ctx, paperID)
		if err != nil {
			return "", err
		}
		if paper.Summary != nil {
			return *paper.Summary, nil
		}
	}
	return text, nil
}

func (s *Service) generateDefinitions(ctx context.Context, paperID string) ([]models.Definition, error) {
	raw, err := s.generate(ctx, paperID, "extract_definitions", definitionsQuery, definitionsPrompt)
	if err != nil {
		return nil, err
	}
	defs, err := ParseDefinitions(raw)
	if err != nil {
		return nil, err
	}
	won, err := s.papers.SetDefinitions(ctx, paperID, defs)
	if err != nil {
		return nil, err
	}
	if !won {
		paper, err := s.papers.GetPaper(ctx, paperID)
		if err != nil {
			return nil, err
		}
		if paper.Definitions != nil {
			return paper.Definitions, nil
		}
	}
	return defs, nil
}

func (s *Service) generateQuestions(ctx context.Context, paperID string) ([]models.Question, error) {
	raw, err := s.generate(ctx, paperID, "generate_questions", questionsQuery, questionsPrompt)
	if err != nil {
		return nil, err
	}
	questions, err := ParseQuestions(raw)
	if err != nil {
		return nil, err
	}
	won, err := s.papers.SetQuestions(ctx, paperID, questions)
	if err != nil {
		return nil, err
	}
	if !won {
		paper, err := s.papers.GetPaper(ctx, paperID)
		if err != nil {
			return nil, err
		}
		if paper.Questions != nil {
			return paper.Questions, nil
		}
	}
	return questions, nil
}

func (s *Service) generate(ctx context.Context, paperID, operation, query, prompt string) (string, error) {
	segments, err := s.retriever.Retrieve(ctx, paperID, query)
	if err != nil {
		return "", err
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: no indexed segments for paper %s", util.ErrGeneration, paperID)
	}
	contextTexts := make([]string, 0, len(segments))
	for _, seg := range segments {
		contextTexts = append(contextTexts, seg.Text)
	}
	s.logger.Info("generating feature",
		slog.String("paper_id", paperID),
		slog.String("operation", operation),
		slog.Int("retrieved", len(segments)))

	resp, info, err := s.llm.Generate(ctx, providers.GenerateRequest{
		Operation: operation,
		Prompt:    prompt,
		Context:   contextTexts,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrGeneration, err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: %s returned empty output", util.ErrGeneration, info.Name)
	}
	return text, nil
}
