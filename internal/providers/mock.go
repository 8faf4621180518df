package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// MockProvider produces deterministic output so the pipeline can run without
// any model service. Structured operations return valid JSON.
type MockProvider struct {
	dim int
}

func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 768
	}
	return &MockProvider{dim: dim}
}

func (m *MockProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	_ = ctx
	dim := req.Dimension
	if dim <= 0 {
		dim = m.dim
	}
	vectors := make([][]float32, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		vectors = append(vectors, deterministicVector(input, dim))
	}
	return vectors, ProviderInfo{Name: "mock", Model: fmt.Sprintf("mock-embed-%d", dim)}, nil
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	info := ProviderInfo{Name: "mock", Model: "mock-llm-v1"}
	op := strings.ToLower(req.Operation)
	switch {
	case strings.Contains(op, "definition"):
		return GenerateResponse{Text: `{"definitions":[{"term":"mock term","definition":"A deterministic placeholder definition."}]}`}, info, nil
	case strings.Contains(op, "question"):
		return GenerateResponse{Text: `{"questions":[{"question":"What does the mock provider return?","type":"multiple_choice","options":["Deterministic output","Random output"],"correct_answer":"Deterministic output"},{"question":"Name the placeholder term.","type":"short_answer","options":[],"correct_answer":"mock term"}]}`}, info, nil
	case strings.Contains(op, "summar"):
		return GenerateResponse{Text: "Deterministic mock summary of the retrieved paper context."}, info, nil
	default:
		return GenerateResponse{Text: "Mock response."}, info, nil
	}
}

func deterministicVector(input string, dim int) []float32 {
	vec := make([]float32, dim)
	seed := []byte(input)
	if len(seed) == 0 {
		seed = []byte("empty")
	}
	for i := 0; i < dim; i++ {
		h := sha256.Sum256(append(seed, byte(i%251)))
		u := binary.BigEndian.Uint32(h[:4])
		v := float32(u%2000)/1000.0 - 1.0
		vec[i] = v
	}
	return normalize(vec)
}

func normalize(v []float32) []float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
	return v
}
