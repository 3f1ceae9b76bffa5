package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
	"github.com/ragdesk-cloud/ragdesk/internal/extract"
	"github.com/ragdesk-cloud/ragdesk/internal/metrics"
)

// hashBlockSize bounds memory while hashing large files.
const hashBlockSize = 32 * 1024

// Service drives document ingestion: hash, dedupe, extract, chunk, embed,
// index. Safe for concurrent use on different documents.
type Service struct {
	docs     DocIndex
	vectors  VectorStore
	embedder domain.Embedder
	chunker  Chunker
	logger   *zap.Logger
}

// New creates an ingestion service.
func New(docs DocIndex, vectors VectorStore, embedder domain.Embedder, chunker Chunker, logger *zap.Logger) *Service {
	return &Service{
		docs:     docs,
		vectors:  vectors,
		embedder: embedder,
		chunker:  chunker,
		logger:   logger,
	}
}

// ProcessFolder ingests every supported file directly inside dir
// (non-recursive). Per-file failures are recorded and logged; they never
// abort the scan.
func (s *Service) ProcessFolder(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read input directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if _, err := extract.FromPath(path); err != nil {
			s.logger.Debug("Skipping unsupported file", zap.String("file", entry.Name()))
			continue
		}

		if err := s.ProcessDocument(ctx, path); err != nil {
			s.logger.Warn("Document ingestion failed",
				zap.String("file", entry.Name()), zap.Error(err))
		}
	}
	return nil
}

// ProcessDocument ingests one file. Byte-identical content is ingested at
// most once: the content hash is computed up front and reused for both the
// success and the error record.
func (s *Service) ProcessDocument(ctx context.Context, path string) error {
	filename := filepath.Base(path)

	format, err := extract.FromPath(path)
	if err != nil {
		return err
	}

	hash, size, err := hashFile(path)
	if err != nil {
		return fmt.Errorf("hash %s: %w", filename, err)
	}

	exists, err := s.docs.Exists(ctx, hash)
	if err != nil {
		return fmt.Errorf("check document %s: %w", filename, err)
	}
	if exists {
		s.logger.Debug("Document already ingested, skipping",
			zap.String("file", filename), zap.String("hash", hash))
		return nil
	}

	start := time.Now()

	chunkCount, err := s.index(ctx, path, filename, string(format), hash)
	if err != nil {
		metrics.DocumentsProcessedTotal.WithLabelValues("error").Inc()
		if recErr := s.docs.Record(ctx, domain.SourceDocument{
			Hash:     hash,
			Filename: filename,
			FileType: string(format),
			FileSize: size,
			Status:   domain.StatusError,
			ErrorMsg: err.Error(),
		}); recErr != nil {
			s.logger.Error("Failed to record ingestion error",
				zap.String("file", filename), zap.Error(recErr))
		}
		return err
	}
	if chunkCount == 0 {
		s.logger.Info("No text extracted, skipping", zap.String("file", filename))
		return nil
	}

	if err := s.docs.Record(ctx, domain.SourceDocument{
		Hash:       hash,
		Filename:   filename,
		FileType:   string(format),
		FileSize:   size,
		ChunkCount: chunkCount,
		Status:     domain.StatusIndexed,
	}); err != nil {
		return fmt.Errorf("record document %s: %w", filename, err)
	}

	metrics.DocumentsProcessedTotal.WithLabelValues("indexed").Inc()
	metrics.ChunksIndexedTotal.Add(float64(chunkCount))
	metrics.IngestDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("Document ingested",
		zap.String("file", filename),
		zap.Int("chunks", chunkCount),
		zap.Duration("took", time.Since(start)))
	return nil
}

// index extracts, chunks, embeds and stores one document's content,
// returning the number of chunks written.
func (s *Service) index(ctx context.Context, path, filename, fileType, hash string) (int, error) {
	text, err := extract.Text(path)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	segments := s.chunker.Split(text)
	vectors := domain.EmbedBatch(ctx, s.embedder, segments)

	chunks := make([]domain.Chunk, len(segments))
	for i, seg := range segments {
		chunks[i] = domain.Chunk{
			ID:       fmt.Sprintf("%s_chunk_%d", filename, i),
			DocHash:  hash,
			Filename: filename,
			FileType: fileType,
			Index:    i,
			Text:     seg,
			Vector:   vectors[i],
		}
	}

	if err := s.vectors.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}
	return len(chunks), nil
}

// ClearAndReindex wipes the vector index and the document ledger, then
// re-ingests the whole folder.
func (s *Service) ClearAndReindex(ctx context.Context, dir string) error {
	if err := s.vectors.Clear(ctx); err != nil {
		return fmt.Errorf("clear vector index: %w", err)
	}
	if err := s.docs.Clear(ctx); err != nil {
		return fmt.Errorf("clear document index: %w", err)
	}
	s.logger.Info("Index cleared, starting full reingest", zap.String("dir", dir))
	return s.ProcessFolder(ctx, dir)
}

// hashFile streams the file through SHA-256 in fixed-size blocks and also
// returns the byte size.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashBlockSize)
	var size int64
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			size += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", 0, err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
