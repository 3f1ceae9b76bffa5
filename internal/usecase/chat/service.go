package chat

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
	"github.com/ragdesk-cloud/ragdesk/internal/metrics"
)

// Confidence constants for the orchestration stages.
const (
	confClassifyEmpty   = 0.3 // classifier returned nothing usable
	confClassifyFailure = 0.2 // classifier call failed outright
	confWithContext     = 0.8
	confNoContext       = 0.3
	confUncertaintyCap  = 0.4
	confGenerateEmpty   = 0.2
	confFailure         = 0.1
)

// Keyword heuristics used when the classifier output cannot be parsed.
var (
	transactionalKeywords = []string{"password", "login", "account", "payment", "refund", "order"}
	techIssueKeywords     = []string{"crash", "error", "bug", "not working", "slow", "problem"}
)

// Config holds the orchestrator's tunables.
type Config struct {
	TopK        int
	Temperature float32
	Timeout     time.Duration
}

// Service is the RAG orchestrator. Per request it categorizes the query,
// retrieves context, generates an answer and fuses the stage confidences.
// Chat never fails: every stage degrades to a defined fallback.
type Service struct {
	retriever Retriever
	llm       LLM
	embedder  domain.Embedder
	cfg       Config
	logger    *zap.Logger
}

// New creates the orchestrator.
func New(retriever Retriever, llm LLM, embedder domain.Embedder, cfg Config, logger *zap.Logger) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Service{
		retriever: retriever,
		llm:       llm,
		embedder:  embedder,
		cfg:       cfg,
		logger:    logger,
	}
}

// Chat answers one support message. The request's declared language wins;
// otherwise the language is detected from the message text.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (turn domain.ChatTurn) {
	lang := req.Language
	if lang == "" {
		lang = domain.DetectLanguage(req.Message)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Chat pipeline panicked", zap.Any("panic", r))
			turn = domain.NewChatTurn(fallbackResponse(lang), domain.CategoryUnknown, confFailure, lang)
		}
		metrics.ChatRequestsTotal.WithLabelValues(turn.Category, resolvedLabel(turn.Resolved)).Inc()
		metrics.ChatConfidence.Observe(turn.Confidence)
	}()

	category, catConf := s.categorize(ctx, req.Message, lang)
	contexts := s.retrieve(ctx, req.Message)
	response, respConf := s.generate(ctx, req.Message, contexts, lang, category)

	confidence := domain.FuseConfidence(catConf, respConf)
	return domain.NewChatTurn(response, category, confidence, lang)
}

// categorize classifies the query. Failure ladder: parse the structured
// output; fall back to keyword heuristics; a failed call yields "unknown".
func (s *Service) categorize(ctx context.Context, query string, lang domain.Language) (string, float64) {
	raw, err := s.llm.Classify(ctx, categoryPrompt(lang, query))
	if err != nil {
		s.logger.Warn("Query categorization failed", zap.Error(err))
		return domain.CategoryUnknown, confClassifyFailure
	}
	if strings.TrimSpace(raw) == "" {
		return domain.CategoryUnknown, confClassifyEmpty
	}

	if category, confidence, ok := parseCategoryJSON(raw); ok {
		return category, confidence
	}
	s.logger.Debug("Classifier output not parseable, using keyword heuristics",
		zap.String("output", raw))
	return keywordCategory(query)
}

func keywordCategory(query string) (string, float64) {
	lower := strings.ToLower(query)
	for _, kw := range transactionalKeywords {
		if strings.Contains(lower, kw) {
			return domain.CategoryTransactional, 0.7
		}
	}
	for _, kw := range techIssueKeywords {
		if strings.Contains(lower, kw) {
			return domain.CategoryTechIssue, 0.7
		}
	}
	return domain.CategoryFAQ, 0.6
}

// retrieve embeds the query and fetches the nearest chunks. Any failure
// degrades to an empty context set.
func (s *Service) retrieve(ctx context.Context, query string) []string {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("Query embedding failed", zap.Error(err))
		return nil
	}

	results, err := s.retriever.Query(ctx, vector, s.cfg.TopK)
	if err != nil {
		s.logger.Warn("Context retrieval failed", zap.Error(err))
		return nil
	}

	contexts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Text != "" {
			contexts = append(contexts, r.Text)
		}
	}
	return contexts
}

// generate produces the answer under a timeout and scores it: 0.8 with
// context, 0.3 without, capped at 0.4 when the answer admits uncertainty.
func (s *Service) generate(
	ctx context.Context, query string, contexts []string,
	lang domain.Language, category string,
) (string, float64) {
	genCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	response, err := s.llm.Generate(genCtx,
		systemPrompt(lang, category, contexts),
		userPrompt(lang, query),
		s.cfg.Temperature,
	)
	if err != nil {
		s.logger.Warn("Response generation failed", zap.Error(err))
		return fallbackResponse(lang), confFailure
	}
	if strings.TrimSpace(response) == "" {
		return fallbackResponse(lang), confGenerateEmpty
	}

	confidence := confNoContext
	if len(contexts) > 0 {
		confidence = confWithContext
	}
	if soundsUncertain(lang, response) && confidence > confUncertaintyCap {
		confidence = confUncertaintyCap
	}
	return response, confidence
}

func resolvedLabel(resolved bool) string {
	if resolved {
		return "true"
	}
	return "false"
}
