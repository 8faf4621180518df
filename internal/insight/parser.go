package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"paperinsight/internal/models"
	"paperinsight/internal/util"
)

// The generator's output format is only weakly constrained by instruction,
// so parsing is expected to fail sometimes; callers surface util.ErrParse to
// the user instead of treating it as exceptional.

func ParseDefinitions(raw string) ([]models.Definition, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Definitions []models.Definition `json:"definitions"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrParse, err)
	}
	out := make([]models.Definition, 0, len(payload.Definitions))
	for _, d := range payload.Definitions {
		d.Term = strings.TrimSpace(d.Term)
		d.Definition = strings.TrimSpace(d.Definition)
		if d.Term == "" || d.Definition == "" {
			continue
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable definitions in output", util.ErrParse)
	}
	return out, nil
}

func ParseQuestions(raw string) ([]models.Question, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Questions []models.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrParse, err)
	}
	out := make([]models.Question, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		n, ok := normalizeQuestion(q)
		if !ok {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable questions in output", util.ErrParse)
	}
	return out, nil
}

func normalizeQuestion(q models.Question) (models.Question, bool) {
	q.Question = strings.TrimSpace(q.Question)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	if q.Question == "" || q.CorrectAnswer == "" {
		return models.Question{}, false
	}

	kind := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(q.Type)), "-", "_")
	switch kind {
	case models.QuestionShortAnswer:
		q.Type = models.QuestionShortAnswer
		q.Options = []string{}
		return q, true
	case models.QuestionMultipleChoice:
		q.Type = models.QuestionMultipleChoice
		options := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			if o = strings.TrimSpace(o); o != "" {
				options = append(options, o)
			}
		}
		if len(options) < 2 {
			return models.Question{}, false
		}
		q.Options = options
		for _, o := range options {
			if strings.EqualFold(o, q.CorrectAnswer) {
				q.CorrectAnswer = o
				return q, true
			}
		}
		return models.Question{}, false
	default:
		return models.Question{}, false
	}
}

// extractJSON pulls the outermost JSON object out of free text, tolerating
// code fences and surrounding prose.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty output", util.ErrParse)
	}
	s = stripCodeFence(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in output", util.ErrParse)
	}
	return s[start : end+1], nil
}

func stripCodeFence(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
