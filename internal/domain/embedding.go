package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// Implementations must be deterministic: the same text yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbedBatch embeds each text in order with e. It never fails partially: if
// any element errors, the whole input degrades to zero-vectors of e's
// dimension, so callers always get len(texts) vectors back.
func EmbedBatch(ctx context.Context, e Embedder, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return zeroVectors(len(texts), e.Dimensions())
		}
		out[i] = vec
	}
	return out
}

func zeroVectors(n, dim int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, dim)
	}
	return out
}
