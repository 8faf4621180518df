package models

import "time"

const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

type Paper struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	UploadDate  time.Time    `json:"upload_date"`
	Status      string       `json:"status"`
	FailReason  string       `json:"fail_reason,omitempty"`
	Summary     *string      `json:"summary"`
	Definitions []Definition `json:"extracted_definitions"`
	Questions   []Question   `json:"generated_questions"`
}

type Definition struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionShortAnswer    = "short_answer"
)

type Question struct {
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type SegmentResult struct {
	PaperID    string  `json:"paper_id"`
	ChunkID    string  `json:"chunk_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}
