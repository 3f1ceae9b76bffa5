package chatlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

// Store keeps the chat log and the human-review queue in process memory.
// Both live for the lifetime of the process and reset on restart.
type Store struct {
	mu    sync.RWMutex
	log   []domain.ChatLogEntry
	queue []domain.QueueItem
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Append records a completed chat turn and returns the stored entry.
func (s *Store) Append(entry domain.ChatLogEntry) domain.ChatLogEntry {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, entry)
	return entry
}

// BySession returns the log entries for one session in arrival order.
func (s *Store) BySession(sessionID string) []domain.ChatLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []domain.ChatLogEntry
	for _, e := range s.log {
		if e.SessionID == sessionID {
			entries = append(entries, e)
		}
	}
	return entries
}

// Len returns the number of logged turns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}

// Annotate attaches feedback to the most recent entry of a session and
// returns the annotated entry. Returns domain.ErrSessionNotFound when the
// session has no logged turns.
func (s *Store) Annotate(sessionID, feedbackType, comment string) (domain.ChatLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.log) - 1; i >= 0; i-- {
		if s.log[i].SessionID != sessionID {
			continue
		}
		s.log[i].FeedbackType = feedbackType
		s.log[i].FeedbackComment = comment
		return s.log[i], nil
	}
	return domain.ChatLogEntry{}, domain.ErrSessionNotFound
}

// Enqueue adds an item to the human-review queue. A missing ChatID is
// derived from the session and the queue position; status starts pending.
func (s *Store) Enqueue(item domain.QueueItem) domain.QueueItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ChatID == "" {
		item.ChatID = fmt.Sprintf("%s_%d", item.SessionID, len(s.queue))
	}
	if item.Status == "" {
		item.Status = "pending"
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now().UTC()
	}

	s.queue = append(s.queue, item)
	return item
}

// Pending returns the queue items still awaiting review.
func (s *Store) Pending() []domain.QueueItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []domain.QueueItem
	for _, it := range s.queue {
		if it.Status == "pending" {
			items = append(items, it)
		}
	}
	return items
}
