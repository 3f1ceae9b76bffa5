package ingest

import (
	"context"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

// DocIndex is the persistent ingestion ledger keyed by content hash.
type DocIndex interface {
	Exists(ctx context.Context, hash string) (bool, error)
	Record(ctx context.Context, doc domain.SourceDocument) error
	Clear(ctx context.Context) error
}

// VectorStore receives embedded chunks and can be wiped for a full reindex.
type VectorStore interface {
	Add(ctx context.Context, chunks []domain.Chunk) error
	Clear(ctx context.Context) error
}

// Chunker splits extracted text into indexable segments.
type Chunker interface {
	Split(text string) []string
}
