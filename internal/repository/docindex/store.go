package docindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	hash        TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	file_type   TEXT NOT NULL,
	file_size   INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL,
	status      TEXT NOT NULL,
	error_msg   TEXT NOT NULL DEFAULT '',
	indexed_at  TIMESTAMP NOT NULL
);
`

// Store persists per-document ingestion records in SQLite so that
// already-ingested files are skipped across restarts.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the document index at the given file path.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open document index: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exists reports whether a document with this content hash has a record,
// regardless of whether that record is indexed or error.
func (s *Store) Exists(ctx context.Context, hash string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE hash = ?", hash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query document %s: %w", hash, err)
	}
	return true, nil
}

// Get returns the record for a content hash.
func (s *Store) Get(ctx context.Context, hash string) (domain.SourceDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT hash, filename, file_type, file_size, chunk_count, status, error_msg, indexed_at
		FROM documents WHERE hash = ?`, hash)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SourceDocument{}, domain.ErrDocumentNotFound
	}
	if err != nil {
		return domain.SourceDocument{}, fmt.Errorf("get document %s: %w", hash, err)
	}
	return doc, nil
}

// Record upserts a document record. Re-ingesting the same content replaces
// the previous record, so an error record can later become indexed.
func (s *Store) Record(ctx context.Context, doc domain.SourceDocument) error {
	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents
			(hash, filename, file_type, file_size, chunk_count, status, error_msg, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Hash, doc.Filename, doc.FileType, doc.FileSize,
		doc.ChunkCount, string(doc.Status), doc.ErrorMsg, doc.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("record document %s: %w", doc.Hash, err)
	}
	return nil
}

// All returns every document record, newest first.
func (s *Store) All(ctx context.Context) ([]domain.SourceDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, filename, file_type, file_size, chunk_count, status, error_msg, indexed_at
		FROM documents ORDER BY indexed_at DESC, hash`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.SourceDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Clear removes every document record. Used together with clearing the
// vector index before a full re-ingest.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.SourceDocument, error) {
	var doc domain.SourceDocument
	var status string
	err := row.Scan(
		&doc.Hash, &doc.Filename, &doc.FileType, &doc.FileSize,
		&doc.ChunkCount, &status, &doc.ErrorMsg, &doc.IndexedAt,
	)
	if err != nil {
		return domain.SourceDocument{}, err
	}
	doc.Status = domain.DocStatus(status)
	return doc, nil
}
