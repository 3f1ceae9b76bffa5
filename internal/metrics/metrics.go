package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline and chat Prometheus metrics.
var (
	DocumentsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdesk",
			Name:      "documents_processed_total",
			Help:      "Documents processed by ingestion outcome",
		},
		[]string{"status"}, // "indexed" / "skipped" / "error"
	)

	ChunksIndexedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragdesk",
			Name:      "chunks_indexed_total",
			Help:      "Chunks written to the vector index",
		},
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdesk",
			Name:      "ingest_document_duration_seconds",
			Help:      "Per-document ingestion duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdesk",
			Name:      "chat_requests_total",
			Help:      "Chat turns by category and resolution verdict",
		},
		[]string{"category", "resolved"},
	)

	ChatConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdesk",
			Name:      "chat_confidence",
			Help:      "Final fused confidence per chat turn",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdesk",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragdesk",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdesk",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdesk",
			Name:      "llm_requests_total",
			Help:      "Generative model calls by operation and status",
		},
		[]string{"op", "status"}, // op: "generate" / "classify"
	)
)

var registered bool

// Register registers pipeline metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(DocumentsProcessedTotal)
	prometheus.MustRegister(ChunksIndexedTotal)
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(ChatConfidence)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(LLMRequestsTotal)
	registered = true
}
