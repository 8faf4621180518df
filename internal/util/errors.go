package util

import "errors"

var (
	ErrValidation   = errors.New("invalid request input")
	ErrNotFound     = errors.New("paper not found")
	ErrNotProcessed = errors.New("paper is not processed yet")

	ErrLoad              = errors.New("failed to load PDF")
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
	ErrEmbedding         = errors.New("embedding service failed")
	ErrGeneration        = errors.New("generation service failed")
	ErrParse             = errors.New("could not parse structured output")
)
