package checkout

import (
	"sync"
	"time"
)

// Registry hands each browser session its own checkout session. Like the
// panel store, checkout state dies with the process; the remote cart is
// what survives.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	maxIdle  time.Duration
	now      func() time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// DefaultMaxIdle is how long an untouched session keeps its checkout
// state. Matches the panel store so both halves of a session expire
// together.
const DefaultMaxIdle = 24 * time.Hour

// NewRegistry creates an empty registry. maxIdle <= 0 uses DefaultMaxIdle.
func NewRegistry(maxIdle time.Duration) *Registry {
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}
	return &Registry{
		sessions: make(map[string]*entry),
		maxIdle:  maxIdle,
		now:      time.Now,
	}
}

// For returns the session's checkout state, creating it on first use.
func (r *Registry) For(sessionID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		e = &entry{session: NewSession()}
		r.sessions[sessionID] = e
	}
	e.lastSeen = r.now()
	return e.session
}

// Remove drops a session's checkout state.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Len reports how many sessions currently hold checkout state.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune drops sessions idle past the registry's max age and returns how
// many were removed. Run it from a ticker.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.maxIdle)
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
