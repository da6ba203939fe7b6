package session

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when an operation targets an untracked session.
var ErrNotFound = errors.New("session not found")

// Registry maps session IDs to the widget currently shown under that ID.
// All operations are short and never block on I/O.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextGen  uint64
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register inserts or replaces the entry for id. A replaced entry is a new
// Session instance with a fresh generation.
func (r *Registry) Register(id string, kind MetricKind, settings Settings) Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextGen++
	s := &Session{
		ID:         id,
		Kind:       kind,
		Settings:   settings,
		Generation: r.nextGen,
	}
	r.sessions[id] = s
	return *s
}

// Unregister removes id if present.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// UpdateConfig replaces the settings of an existing session in place.
func (r *Registry) UpdateConfig(id string, settings Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Settings = settings
	return nil
}

// Lookup returns a copy of the session registered under id.
func (r *Registry) Lookup(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// IfCurrent runs fn only while s is still the registered instance for its ID.
// fn runs under the read lock and must not block or call back into the registry.
func (r *Registry) IfCurrent(s Session, fn func()) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cur, ok := r.sessions[s.ID]
	if !ok || cur.Generation != s.Generation {
		return false
	}
	fn()
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Clear drops every session.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*Session)
}
