package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

func TestProcessDocument_IndexesTextFile(t *testing.T) {
	svc, docs, vectors := newTestService(t)
	ctx := context.Background()

	path := writeFile(t, t.TempDir(), "faq.txt", "Reset your password from the settings page.")
	if err := svc.ProcessDocument(ctx, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, ok := docs.byFilename("faq.txt")
	if !ok {
		t.Fatal("no document record written")
	}
	if doc.Status != domain.StatusIndexed {
		t.Fatalf("unexpected status: %s", doc.Status)
	}
	if doc.ChunkCount != 1 {
		t.Fatalf("expected 1 chunk, got %d", doc.ChunkCount)
	}
	if doc.FileType != "txt" {
		t.Fatalf("unexpected file type: %s", doc.FileType)
	}
	if len(doc.Hash) != 64 {
		t.Fatalf("expected sha256 hex hash, got %q", doc.Hash)
	}

	if vectors.count() != 1 {
		t.Fatalf("expected 1 chunk in vector store, got %d", vectors.count())
	}
	chunk := vectors.chunks[0]
	if chunk.ID != "faq.txt_chunk_0" {
		t.Errorf("unexpected chunk ID: %s", chunk.ID)
	}
	if chunk.DocHash != doc.Hash {
		t.Errorf("chunk hash %s does not match document %s", chunk.DocHash, doc.Hash)
	}
	if len(chunk.Vector) != 16 {
		t.Errorf("unexpected vector dims: %d", len(chunk.Vector))
	}
}

func TestProcessDocument_LongTextProducesOverlappingChunks(t *testing.T) {
	svc, docs, vectors := newTestService(t)
	ctx := context.Background()

	path := writeFile(t, t.TempDir(), "long.txt", strings.Repeat("a", 2500))
	if err := svc.ProcessDocument(ctx, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vectors.count() != 3 {
		t.Fatalf("expected 3 chunks, got %d", vectors.count())
	}
	doc, _ := docs.byFilename("long.txt")
	if doc.ChunkCount != 3 {
		t.Fatalf("record says %d chunks", doc.ChunkCount)
	}
	for i, chunk := range vectors.chunks {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
	}
}

func TestProcessDocument_SecondIngestIsNoOp(t *testing.T) {
	svc, docs, vectors := newTestService(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := writeFile(t, dir, "faq.txt", "Some support content here.")

	if err := svc.ProcessDocument(ctx, path); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if err := svc.ProcessDocument(ctx, path); err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if docs.count() != 1 {
		t.Fatalf("expected 1 record, got %d", docs.count())
	}
	if vectors.count() != 1 {
		t.Fatalf("expected no new chunks, got %d", vectors.count())
	}
}

func TestProcessDocument_SameBytesDifferentNameIsNoOp(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "identical bytes")
	b := writeFile(t, dir, "b.txt", "identical bytes")

	if err := svc.ProcessDocument(ctx, a); err != nil {
		t.Fatalf("ingest a: %v", err)
	}
	if err := svc.ProcessDocument(ctx, b); err != nil {
		t.Fatalf("ingest b: %v", err)
	}

	if docs.count() != 1 {
		t.Fatalf("expected 1 record for identical content, got %d", docs.count())
	}
}

func TestProcessDocument_EmptyFileSkippedWithoutRecord(t *testing.T) {
	svc, docs, vectors := newTestService(t)
	ctx := context.Background()

	path := writeFile(t, t.TempDir(), "empty.txt", "   \n  ")
	if err := svc.ProcessDocument(ctx, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if docs.count() != 0 {
		t.Fatalf("expected no record for empty document, got %d", docs.count())
	}
	if vectors.count() != 0 {
		t.Fatalf("expected no chunks, got %d", vectors.count())
	}
}

func TestProcessDocument_VectorStoreFailureRecordsError(t *testing.T) {
	svc, docs, vectors := newTestService(t)
	ctx := context.Background()

	vectors.addFn = func(_ context.Context, _ []domain.Chunk) error {
		return errors.New("write refused")
	}

	path := writeFile(t, t.TempDir(), "doc.txt", "content that should fail to index")
	if err := svc.ProcessDocument(ctx, path); err == nil {
		t.Fatal("expected error")
	}

	doc, ok := docs.byFilename("doc.txt")
	if !ok {
		t.Fatal("expected an error record")
	}
	if doc.Status != domain.StatusError {
		t.Fatalf("unexpected status: %s", doc.Status)
	}
	if !strings.Contains(doc.ErrorMsg, "write refused") {
		t.Fatalf("unexpected error message: %q", doc.ErrorMsg)
	}
}

func TestProcessDocument_ErrorThenSuccessReusesHash(t *testing.T) {
	svc, docs, vectors := newTestService(t)
	ctx := context.Background()

	path := writeFile(t, t.TempDir(), "doc.txt", "recoverable content")

	fail := true
	vectors.addFn = func(ctx context.Context, chunks []domain.Chunk) error {
		if fail {
			return errors.New("transient")
		}
		vectors.addFn = nil
		return vectors.Add(ctx, chunks)
	}

	if err := svc.ProcessDocument(ctx, path); err == nil {
		t.Fatal("expected first ingest to fail")
	}
	errDoc, _ := docs.byFilename("doc.txt")

	// The error record blocks re-ingest of the same bytes; a retry must go
	// through the same hash after the record is cleared.
	fail = false
	if err := svc.ProcessDocument(ctx, path); err != nil {
		t.Fatalf("retry with error record present should be a silent skip: %v", err)
	}
	if vectors.count() != 0 {
		t.Fatal("error record should have blocked re-ingest")
	}

	if err := docs.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := svc.ProcessDocument(ctx, path); err != nil {
		t.Fatalf("ingest after clear: %v", err)
	}
	okDoc, _ := docs.byFilename("doc.txt")
	if okDoc.Hash != errDoc.Hash {
		t.Fatalf("hash changed between error and success: %s vs %s", errDoc.Hash, okDoc.Hash)
	}
	if okDoc.Status != domain.StatusIndexed {
		t.Fatalf("unexpected status: %s", okDoc.Status)
	}
}

func TestProcessDocument_UnsupportedExtension(t *testing.T) {
	svc, _, _ := newTestService(t)

	path := writeFile(t, t.TempDir(), "image.png", "bytes")
	err := svc.ProcessDocument(context.Background(), path)
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestProcessFolder_MixedDirectory(t *testing.T) {
	svc, docs, vectors := newTestService(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "first support document")
	writeFile(t, dir, "b.md", "# Second\n\nsupport document")
	writeFile(t, dir, "skip.png", "binary junk")
	writeFile(t, dir, "broken.docx", "not a real zip archive")

	if err := svc.ProcessFolder(ctx, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two indexed, one unsupported skipped, one extraction failure recorded.
	if vectors.count() != 2 {
		t.Fatalf("expected 2 chunks, got %d", vectors.count())
	}
	if docs.count() != 3 {
		t.Fatalf("expected 3 records (2 indexed + 1 error), got %d", docs.count())
	}
	broken, ok := docs.byFilename("broken.docx")
	if !ok {
		t.Fatal("expected error record for broken.docx")
	}
	if broken.Status != domain.StatusError {
		t.Fatalf("unexpected status: %s", broken.Status)
	}
}

func TestProcessFolder_MissingDirectory(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.ProcessFolder(context.Background(), "/nonexistent/path"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestClearAndReindex(t *testing.T) {
	svc, docs, vectors := newTestService(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "indexable content")

	if err := svc.ProcessDocument(ctx, path); err != nil {
		t.Fatalf("initial ingest: %v", err)
	}
	if err := svc.ClearAndReindex(ctx, dir); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	if vectors.cleared != 1 {
		t.Fatalf("expected vector clear, got %d", vectors.cleared)
	}
	if vectors.count() != 1 {
		t.Fatalf("expected content re-ingested, got %d chunks", vectors.count())
	}
	if docs.count() != 1 {
		t.Fatalf("expected 1 fresh record, got %d", docs.count())
	}
}
