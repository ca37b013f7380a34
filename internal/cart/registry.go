package cart

import (
	"sync"
	"time"
)

// Registry hands each browser session its own panel store. Stores live
// only in memory; a restart empties every panel, which is acceptable
// because the remote cart survives independently.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*entry
	maxIdle time.Duration
	now     func() time.Time
}

type entry struct {
	store    *Store
	lastSeen time.Time
}

// DefaultMaxIdle is how long an untouched session keeps its panel store.
const DefaultMaxIdle = 24 * time.Hour

// NewRegistry creates a registry. maxIdle <= 0 uses DefaultMaxIdle.
func NewRegistry(maxIdle time.Duration) *Registry {
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}
	return &Registry{
		stores:  make(map[string]*entry),
		maxIdle: maxIdle,
		now:     time.Now,
	}
}

// For returns the session's store, creating it on first use.
func (r *Registry) For(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.stores[sessionID]
	if !ok {
		e = &entry{store: NewStore()}
		r.stores[sessionID] = e
	}
	e.lastSeen = r.now()
	return e.store
}

// Remove drops a session's store.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
}

// Len reports how many sessions currently hold a store.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Prune drops stores idle past the registry's max age and returns how
// many were removed. Run it from a ticker.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.maxIdle)
	removed := 0
	for id, e := range r.stores {
		if e.lastSeen.Before(cutoff) {
			delete(r.stores, id)
			removed++
		}
	}
	return removed
}
