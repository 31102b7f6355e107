package session

import (
	"context"
	"sync"
	"time"

	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
)

// Store persists session state. Get returns ErrSessionExpired for a
// session that exists but outlived its TTL, and ErrNotFound for an unknown
// id; GetOrCreate hides both behind a fresh state.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	GetOrCreate(ctx context.Context, id string) (*State, error)
	Put(ctx context.Context, state *State) error
	Delete(ctx context.Context, id string) error
	// Sweep removes expired sessions and returns how many were dropped.
	Sweep(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// MemoryStore is the default volatile backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an in-memory store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*State),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the stored state.
func (m *MemoryStore) Get(_ context.Context, id string) (*State, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, domerrors.ErrNotFound
	}
	if state.Expired(m.ttl, m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, domerrors.ErrSessionExpired
	}
	return state.clone(), nil
}

// GetOrCreate returns the existing state or a fresh one for the id.
func (m *MemoryStore) GetOrCreate(ctx context.Context, id string) (*State, error) {
	state, err := m.Get(ctx, id)
	if err == nil {
		return state, nil
	}
	return NewState(id, m.now()), nil
}

// Put stores a copy of the state.
func (m *MemoryStore) Put(_ context.Context, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[state.ID] = state.clone()
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Sweep drops every expired session.
func (m *MemoryStore) Sweep(_ context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, state := range m.sessions {
		if state.Expired(m.ttl, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

// Close is a no-op for the memory backend.
func (m *MemoryStore) Close() error { return nil }
