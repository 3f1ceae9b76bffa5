package chat

import (
	"context"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

// Retriever answers nearest-neighbor queries over the chunk index.
type Retriever interface {
	Query(ctx context.Context, vector []float32, topK int) ([]domain.QueryResult, error)
}

// LLM is the generative-language capability the orchestrator depends on.
// Both calls must tolerate network failure; the orchestrator treats every
// error as recoverable.
type LLM interface {
	Generate(ctx context.Context, system, user string, temperature float32) (string, error)
	Classify(ctx context.Context, prompt string) (string, error)
}
