package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ragdesk-cloud/ragdesk/internal/db"
	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

// store is the consumer interface for chunk storage and search (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// listPageSize bounds each FT.SEARCH page when walking the whole index.
const listPageSize = 100

// Config holds the index parameters for the chunk collection.
type Config struct {
	Collection  string
	KeyPrefix   string
	Dimensions  int
	M           int
	EFConstruct int
}

// Repo stores document chunks as hashes and searches them via FT.SEARCH KNN.
type Repo struct {
	store store
	cfg   Config
}

// New creates a vector repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

func (r *Repo) indexName() string {
	return fmt.Sprintf("%s%s:idx", r.cfg.KeyPrefix, r.cfg.Collection)
}

func (r *Repo) chunkPrefix() string {
	return r.cfg.KeyPrefix + "chunk:"
}

func (r *Repo) chunkKey(id string) string {
	return r.chunkPrefix() + id
}

// EnsureIndex creates the chunk index if it does not already exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.indexName(), err)
	}
	if exists {
		return nil
	}

	err = r.store.CreateIndex(ctx, r.indexDefinition())
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.indexName(), err)
	}
	return nil
}

func (r *Repo) indexDefinition() *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.chunkPrefix()},
		Fields: []db.IndexField{
			{Name: "text", Type: db.IndexFieldText},
			{Name: "filename", Type: db.IndexFieldTag},
			{Name: "doc_hash", Type: db.IndexFieldTag},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.cfg.Dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.cfg.M,
				VectorEFConstruct: r.cfg.EFConstruct,
			},
		},
	}
}

// Add stores chunks with their embeddings. When a chunk ID is already taken
// (same filename ingested under a different hash, or a retry after a partial
// failure) the new chunk gets a random 8-hex suffix instead of overwriting.
func (r *Repo) Add(ctx context.Context, chunks []domain.Chunk) error {
	for i := range chunks {
		c := &chunks[i]

		id := c.ID
		taken, err := r.store.Exists(ctx, r.chunkKey(id))
		if err != nil {
			return fmt.Errorf("check chunk %s: %w", id, err)
		}
		if taken {
			id = fmt.Sprintf("%s_%s", c.ID, uuid.NewString()[:8])
		}

		fields := map[string]string{
			"text":        c.Text,
			"filename":    c.Filename,
			"chunk_id":    id,
			"chunk_index": strconv.Itoa(c.Index),
			"file_type":   c.FileType,
			"doc_hash":    c.DocHash,
			"vector":      vectorBlob(c.Vector),
		}
		if err := r.store.HSet(ctx, r.chunkKey(id), fields); err != nil {
			return fmt.Errorf("store chunk %s: %w", id, err)
		}
	}
	return nil
}

// Query returns the topK nearest chunks for the given embedding, closest
// first. An empty index yields an empty slice, not an error.
func (r *Repo) Query(ctx context.Context, vector []float32, topK int) ([]domain.QueryResult, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{"text", "filename", "chunk_id", "chunk_index", "file_type"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("search knn %s: %w", r.cfg.Collection, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	results := make([]domain.QueryResult, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := entry.Fields["chunk_id"]
		if id == "" {
			id = strings.TrimPrefix(entry.Key, r.chunkPrefix())
		}
		results = append(results, domain.QueryResult{
			ID:       id,
			Text:     entry.Fields["text"],
			Distance: entry.Distance,
			Metadata: map[string]string{
				"filename":    entry.Fields["filename"],
				"chunk_id":    id,
				"chunk_index": entry.Fields["chunk_index"],
				"file_type":   entry.Fields["file_type"],
			},
		})
	}
	return results, nil
}

// All returns every indexed chunk for introspection, paging through the
// index and hydrating each hash. Vectors are not decoded. A missing index
// yields an empty result, not an error.
func (r *Repo) All(ctx context.Context) ([]domain.QueryResult, error) {
	var results []domain.QueryResult
	for offset := 0; ; offset += listPageSize {
		sr, err := r.store.SearchList(ctx, r.indexName(), "*", offset, listPageSize, []string{"chunk_id"})
		if err != nil {
			if errors.Is(err, db.ErrIndexNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("list %s: %w", r.cfg.Collection, err)
		}
		if sr == nil || len(sr.Entries) == 0 {
			return results, nil
		}

		for _, entry := range sr.Entries {
			fields, err := r.store.HGetAll(ctx, entry.Key)
			if err != nil {
				return nil, fmt.Errorf("read chunk %s: %w", entry.Key, err)
			}
			id := fields["chunk_id"]
			if id == "" {
				id = strings.TrimPrefix(entry.Key, r.chunkPrefix())
			}
			results = append(results, domain.QueryResult{
				ID:   id,
				Text: fields["text"],
				Metadata: map[string]string{
					"filename":    fields["filename"],
					"chunk_id":    id,
					"chunk_index": fields["chunk_index"],
					"file_type":   fields["file_type"],
					"doc_hash":    fields["doc_hash"],
				},
			})
		}

		if len(sr.Entries) < listPageSize {
			return results, nil
		}
	}
}

// Count returns the number of indexed chunks.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("count %s: %w", r.cfg.Collection, err)
	}
	return n, nil
}

// Clear drops the index together with every stored chunk, then recreates an
// empty index.
func (r *Repo) Clear(ctx context.Context) error {
	err := r.store.DropIndex(ctx, r.indexName(), true)
	if err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.indexName(), err)
	}
	return r.EnsureIndex(ctx)
}

// vectorBlob encodes float32 values as a little-endian byte string, the
// layout FT.SEARCH expects for vector fields on hashes.
func vectorBlob(v []float32) string {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
