package http

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/wayfarer/internal/logging"
	"github.com/aretw0/wayfarer/pkg/domain"
)

// StreamManager fans state diffs out to the SSE subscribers of each session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- []byte]struct{} // SessionID -> set of channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager. A nil logger discards.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- []byte]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for the session and returns it with its cancel func.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan []byte, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan []byte, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- []byte]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
		})
	}
}

// Subscribers returns how many streams are open for the session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends the diff to every subscriber of its session. Slow clients drop messages.
func (sm *StreamManager) Broadcast(diff *domain.StateDiff) {
	if diff == nil {
		return
	}
	msg, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("SSE: failed to encode diff", "session_id", diff.SessionID, "err", err)
		return
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[diff.SessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "session_id", diff.SessionID)
		}
	}
}

// Watches reports whether a diff touches any of the comma separated sections in watch.
// An empty watch list matches everything.
func Watches(diff *domain.StateDiff, watch string) bool {
	if strings.TrimSpace(watch) == "" {
		return true
	}
	for _, field := range strings.Split(watch, ",") {
		switch strings.TrimSpace(field) {
		case "screen":
			if diff.Screen != nil {
				return true
			}
		case "step":
			if diff.Step != nil {
				return true
			}
		case "draft":
			if diff.Draft != nil || diff.DraftCleared {
				return true
			}
		case "submitted":
			if diff.Submitted != nil || diff.SubmittedCleared {
				return true
			}
		}
	}
	return false
}
