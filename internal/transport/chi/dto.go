package chi

import (
	"time"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

type chatRequest struct {
	Message   string `json:"message"`
	Language  string `json:"language,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response   string  `json:"response"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
	Language   string  `json:"language"`
	Resolved   bool    `json:"resolved"`
}

type feedbackRequest struct {
	SessionID    string `json:"session_id"`
	FeedbackType string `json:"feedback_type"`
	Comment      string `json:"comment,omitempty"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type documentInfo struct {
	Hash       string    `json:"hash"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	ChunkCount int       `json:"chunk_count"`
	Status     string    `json:"status"`
	ErrorMsg   string    `json:"error_message,omitempty"`
	IndexedAt  time.Time `json:"indexed_at"`
}

type queueItemInfo struct {
	ChatID     string    `json:"chat_id"`
	UserID     string    `json:"user_id,omitempty"`
	SessionID  string    `json:"session_id"`
	Message    string    `json:"message"`
	Response   string    `json:"response"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	Comment    string    `json:"feedback_comment,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
}

func documentToDTO(d domain.SourceDocument) documentInfo {
	return documentInfo{
		Hash:       d.Hash,
		Filename:   d.Filename,
		FileType:   d.FileType,
		FileSize:   d.FileSize,
		ChunkCount: d.ChunkCount,
		Status:     string(d.Status),
		ErrorMsg:   d.ErrorMsg,
		IndexedAt:  d.IndexedAt,
	}
}

func queueItemToDTO(q domain.QueueItem) queueItemInfo {
	return queueItemInfo{
		ChatID:     q.ChatID,
		UserID:     q.UserID,
		SessionID:  q.SessionID,
		Message:    q.Message,
		Response:   q.Response,
		Category:   q.Category,
		Confidence: q.Confidence,
		Comment:    q.Comment,
		Timestamp:  q.Timestamp,
		Status:     q.Status,
	}
}
