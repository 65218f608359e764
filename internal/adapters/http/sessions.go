package httpadapter

import (
	"sync"
	"time"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

// SessionRegistry keeps live conversation state in memory. Each session has
// its own lock so concurrent requests for the same session serialize into
// one-turn-at-a-time processing while distinct sessions proceed in parallel.
type SessionRegistry struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	mu    sync.Mutex
	state domain.ConversationState
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{entries: make(map[string]*sessionEntry)}
}

func (r *SessionRegistry) entry(sessionID string) *sessionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &sessionEntry{state: domain.NewConversationState(sessionID, time.Now())}
		r.entries[sessionID] = entry
	}
	return entry
}

// WithTurn runs fn holding the session's lock; fn receives the current state
// and returns the state to keep.
func (r *SessionRegistry) WithTurn(sessionID string, fn func(domain.ConversationState) domain.ConversationState) {
	entry := r.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.state = fn(entry.state)
}

func (r *SessionRegistry) Get(sessionID string) (domain.ConversationState, bool) {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	r.mu.Unlock()
	if !ok {
		return domain.ConversationState{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state, true
}
