package chat

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

type mockRetriever struct {
	queryFn func(ctx context.Context, vector []float32, topK int) ([]domain.QueryResult, error)
}

func (m *mockRetriever) Query(ctx context.Context, vector []float32, topK int) ([]domain.QueryResult, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, vector, topK)
	}
	return nil, nil
}

type mockLLM struct {
	generateFn func(ctx context.Context, system, user string, temperature float32) (string, error)
	classifyFn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockLLM) Generate(ctx context.Context, system, user string, temperature float32) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, system, user, temperature)
	}
	return "generated answer", nil
}

func (m *mockLLM) Classify(ctx context.Context, prompt string) (string, error) {
	if m.classifyFn != nil {
		return m.classifyFn(ctx, prompt)
	}
	return `{"category": "Product FAQ", "confidence": 0.9}`, nil
}

type mockEmbedder struct {
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []float32{0.1, 0.2}, nil
}

func (m *mockEmbedder) Dimensions() int { return 2 }

func newTestService(t *testing.T) (*Service, *mockRetriever, *mockLLM, *mockEmbedder) {
	t.Helper()
	retriever := &mockRetriever{}
	llm := &mockLLM{}
	embedder := &mockEmbedder{}
	svc := New(retriever, llm, embedder, Config{
		TopK:        5,
		Temperature: 0.1,
		Timeout:     time.Second,
	}, zap.NewNop())
	return svc, retriever, llm, embedder
}

func contextResults(texts ...string) []domain.QueryResult {
	out := make([]domain.QueryResult, len(texts))
	for i, text := range texts {
		out[i] = domain.QueryResult{ID: "c", Text: text, Distance: 0.1}
	}
	return out
}
