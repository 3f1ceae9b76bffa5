package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/ragdesk-cloud/ragdesk/internal/chunker"
	"github.com/ragdesk-cloud/ragdesk/internal/domain"
	"github.com/ragdesk-cloud/ragdesk/internal/embedding"
)

// mockDocIndex implements DocIndex in memory.
type mockDocIndex struct {
	mu       sync.Mutex
	records  map[string]domain.SourceDocument
	existsFn func(ctx context.Context, hash string) (bool, error)
	recordFn func(ctx context.Context, doc domain.SourceDocument) error
}

func newMockDocIndex() *mockDocIndex {
	return &mockDocIndex{records: make(map[string]domain.SourceDocument)}
}

func (m *mockDocIndex) Exists(ctx context.Context, hash string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, hash)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[hash]
	return ok, nil
}

func (m *mockDocIndex) Record(ctx context.Context, doc domain.SourceDocument) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[doc.Hash] = doc
	return nil
}

func (m *mockDocIndex) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]domain.SourceDocument)
	return nil
}

func (m *mockDocIndex) byFilename(name string) (domain.SourceDocument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.records {
		if doc.Filename == name {
			return doc, true
		}
	}
	return domain.SourceDocument{}, false
}

func (m *mockDocIndex) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// mockVectorStore implements VectorStore in memory.
type mockVectorStore struct {
	mu      sync.Mutex
	chunks  []domain.Chunk
	addFn   func(ctx context.Context, chunks []domain.Chunk) error
	cleared int
}

func (m *mockVectorStore) Add(ctx context.Context, chunks []domain.Chunk) error {
	if m.addFn != nil {
		return m.addFn(ctx, chunks)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *mockVectorStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = nil
	m.cleared++
	return nil
}

func (m *mockVectorStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks)
}

func newTestService(t *testing.T) (*Service, *mockDocIndex, *mockVectorStore) {
	t.Helper()
	docs := newMockDocIndex()
	vectors := &mockVectorStore{}
	svc := New(docs, vectors, embedding.NewHash(16), chunker.New(1000, 200), zap.NewNop())
	return svc, docs, vectors
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
