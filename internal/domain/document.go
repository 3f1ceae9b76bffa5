package domain

import "time"

// KeyPrefix namespaces every Redis key written by this service.
const KeyPrefix = "ragdesk:"

// DocStatus is the terminal processing state of a source document.
type DocStatus string

const (
	// StatusIndexed marks a document whose chunks are in the vector index.
	StatusIndexed DocStatus = "indexed"
	// StatusError marks a document whose ingestion failed.
	StatusError DocStatus = "error"
)

// SourceDocument is the per-document ingestion record. Its identity is the
// SHA-256 of the file bytes, not the filename: byte-identical content is
// ingested at most once regardless of what it is called on disk.
type SourceDocument struct {
	Hash       string
	Filename   string
	FileType   string
	FileSize   int64
	ChunkCount int
	Status     DocStatus
	ErrorMsg   string
	IndexedAt  time.Time
}

// Indexed reports whether the document made it into the vector index.
func (d SourceDocument) Indexed() bool { return d.Status == StatusIndexed }

// Chunk is the unit stored and retrieved by the vector index: a bounded,
// possibly overlapping segment of one document's extracted text.
type Chunk struct {
	ID       string // "<filename>_chunk_<index>", disambiguated by the store
	DocHash  string
	Filename string
	FileType string
	Index    int
	Text     string
	Vector   []float32
}

// QueryResult is one nearest-neighbor hit. Ephemeral, never persisted.
type QueryResult struct {
	ID       string
	Text     string
	Distance float64
	Metadata map[string]string
}
