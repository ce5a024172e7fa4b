package pending

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps selections in process with a TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	sel       Selection
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (Selection, error) {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok {
		return Selection{}, nil
	}
	now := m.now()
	if !now.Before(e.expiresAt) {
		// a Put may have replaced the entry since the read lock was released
		m.mu.Lock()
		if cur, ok := m.entries[sessionID]; ok && !now.Before(cur.expiresAt) {
			delete(m.entries, sessionID)
		}
		m.mu.Unlock()
		return Selection{}, nil
	}
	return e.sel, nil
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, sel Selection) error {
	now := m.now()
	sel.UpdatedAt = now
	m.mu.Lock()
	m.entries[sessionID] = &entry{sel: sel, expiresAt: now.Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
