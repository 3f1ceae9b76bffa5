package domain

import "time"

// Query categories produced by the orchestrator. The label set is fixed;
// anything the classifier cannot place lands in CategoryUnknown.
const (
	CategoryFAQ           = "Product FAQ"
	CategoryTechIssue     = "Tech issue"
	CategoryTransactional = "Transactional"
	CategoryUnknown       = "unknown"
)

// ResolvedThreshold is the confidence a turn must clear to count as resolved.
// Turns at or below it are routed to the human support queue.
const ResolvedThreshold = 0.5

// ChatRequest is one incoming support message.
type ChatRequest struct {
	Message   string
	Language  Language // zero value means auto-detect
	UserID    string
	SessionID string
}

// ChatTurn is the orchestrator's answer to a single request. Constructed
// fresh per request; the core does not retain it.
type ChatTurn struct {
	Response   string
	Category   string
	Confidence float64
	Language   Language
	Resolved   bool
}

// NewChatTurn builds a turn and derives the resolution verdict from the
// confidence, keeping the two fields consistent by construction.
func NewChatTurn(response, category string, confidence float64, lang Language) ChatTurn {
	return ChatTurn{
		Response:   response,
		Category:   category,
		Confidence: confidence,
		Language:   lang,
		Resolved:   confidence > ResolvedThreshold,
	}
}

// FuseConfidence combines the categorization and generation confidences.
// The pipeline is only as trustworthy as its weakest stage.
func FuseConfidence(category, response float64) float64 {
	return min(category, response)
}

// ChatLogEntry is a recorded turn with its request context.
type ChatLogEntry struct {
	UserID    string
	SessionID string
	Message   string
	Response  string
	Language  Language
	Category  string

	Confidence float64
	Resolved   bool
	Timestamp  time.Time

	FeedbackType    string // "like" / "dislike", empty until submitted
	FeedbackComment string
}

// QueueItem is an unresolved or disliked turn awaiting human review.
type QueueItem struct {
	ChatID     string
	UserID     string
	SessionID  string
	Message    string
	Response   string
	Category   string
	Confidence float64
	Comment    string
	Timestamp  time.Time
	Status     string // "pending"
}
