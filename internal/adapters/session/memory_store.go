package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

// MemoryStore keeps sessions in process memory. Sessions are stored encoded
// so callers never share state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time

	nextSweep time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(ctx context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	m.sessions[s.ID] = memoryEntry{data: data, expiresAt: now.Add(m.ttl)}
	return nil
}

// sweep drops expired entries at most once per TTL. Expects m.mu to be held.
func (m *MemoryStore) sweep(now time.Time) {
	if now.Before(m.nextSweep) {
		return
	}
	for id, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
	m.nextSweep = now.Add(m.ttl)
}

// Len reports the number of entries held, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

// load expects m.mu to be held.
func (m *MemoryStore) load(id string) (*domain.Session, error) {
	entry, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if m.now().After(entry.expiresAt) {
		delete(m.sessions, id)
		return nil, domain.ErrSessionNotFound
	}

	var s domain.Session
	if err := json.Unmarshal(entry.data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, fn func(s *domain.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(id)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	s.UpdatedAt = m.now()

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.sessions[id] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
