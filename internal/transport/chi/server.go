package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
	healthuc "github.com/ragdesk-cloud/ragdesk/internal/usecase/health"
)

// Chatter answers support messages.
type Chatter interface {
	Chat(ctx context.Context, req domain.ChatRequest) domain.ChatTurn
}

// Reindexer rebuilds the whole index from the input directory.
type Reindexer interface {
	ClearAndReindex(ctx context.Context, dir string) error
}

// DocLister reads the document ingestion ledger.
type DocLister interface {
	All(ctx context.Context) ([]domain.SourceDocument, error)
}

// ChatLog records turns and routes unresolved ones to the review queue.
type ChatLog interface {
	Append(entry domain.ChatLogEntry) domain.ChatLogEntry
	Annotate(sessionID, feedbackType, comment string) (domain.ChatLogEntry, error)
	Enqueue(item domain.QueueItem) domain.QueueItem
	Pending() []domain.QueueItem
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API for the support chat service.
type Server struct {
	chat     Chatter
	reindex  Reindexer
	docs     DocLister
	log      ChatLog
	health   HealthChecker
	inputDir string
	logger   *zap.Logger

	reindexing atomic.Bool
}

// NewServer creates the API server.
func NewServer(
	chat Chatter,
	reindex Reindexer,
	docs DocLister,
	log ChatLog,
	health HealthChecker,
	inputDir string,
	logger *zap.Logger,
) *Server {
	return &Server{
		chat:     chat,
		reindex:  reindex,
		docs:     docs,
		log:      log,
		health:   health,
		inputDir: inputDir,
		logger:   logger,
	}
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/chat", s.handleChat)
	r.Post("/feedback", s.handleFeedback)
	r.Post("/reindex-documents", s.handleReindex)
	r.Get("/documents", s.handleDocuments)
	r.Get("/support-queue", s.handleSupportQueue)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleChat runs the orchestrator, logs the turn and enqueues unresolved
// turns for human review.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Message is required")
		return
	}

	var lang domain.Language
	if req.Language != "" {
		lang = domain.ParseLanguage(req.Language)
	}

	turn := s.chat.Chat(r.Context(), domain.ChatRequest{
		Message:   req.Message,
		Language:  lang,
		UserID:    req.UserID,
		SessionID: req.SessionID,
	})

	s.log.Append(domain.ChatLogEntry{
		UserID:     req.UserID,
		SessionID:  req.SessionID,
		Message:    req.Message,
		Response:   turn.Response,
		Language:   turn.Language,
		Category:   turn.Category,
		Confidence: turn.Confidence,
		Resolved:   turn.Resolved,
	})
	if !turn.Resolved {
		s.log.Enqueue(domain.QueueItem{
			UserID:     req.UserID,
			SessionID:  req.SessionID,
			Message:    req.Message,
			Response:   turn.Response,
			Category:   turn.Category,
			Confidence: turn.Confidence,
		})
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:   turn.Response,
		Confidence: turn.Confidence,
		Category:   turn.Category,
		Language:   string(turn.Language),
		Resolved:   turn.Resolved,
	})
}

// handleFeedback annotates the latest turn of a session; a dislike also
// lands in the review queue.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Session ID is required")
		return
	}
	if req.FeedbackType != "like" && req.FeedbackType != "dislike" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Feedback type must be like or dislike")
		return
	}

	entry, err := s.log.Annotate(req.SessionID, req.FeedbackType, req.Comment)
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found", "Chat session not found")
		return
	}

	if req.FeedbackType == "dislike" {
		s.log.Enqueue(domain.QueueItem{
			UserID:     entry.UserID,
			SessionID:  entry.SessionID,
			Message:    entry.Message,
			Response:   entry.Response,
			Category:   entry.Category,
			Confidence: entry.Confidence,
			Comment:    req.Comment,
		})
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "success",
		Message: "Feedback submitted successfully",
	})
}

// handleReindex kicks off a full reindex in the background. At most one
// reindex runs at a time.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if !s.reindexing.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "reindex_in_progress", "Reindexing is already running")
		return
	}

	go func() {
		defer s.reindexing.Store(false)
		if err := s.reindex.ClearAndReindex(context.Background(), s.inputDir); err != nil {
			s.logger.Error("Background reindex failed", zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, statusResponse{
		Status:  "success",
		Message: "Document reindexing started",
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.All(r.Context())
	if err != nil {
		s.logger.Error("Failed to list documents", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]documentInfo, len(docs))
	for i, d := range docs {
		items[i] = documentToDTO(d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": items, "total": len(items)})
}

func (s *Server) handleSupportQueue(w http.ResponseWriter, r *http.Request) {
	pending := s.log.Pending()
	items := make([]queueItemInfo, len(pending))
	for i, q := range pending {
		items[i] = queueItemToDTO(q)
	}
	writeJSON(w, http.StatusOK, map[string]any{"queue": items, "total": len(items)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status":         string(report.Status),
		"checks":         report.Checks,
		"indexed_chunks": report.IndexedChunks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
