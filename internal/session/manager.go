package session

import (
	"sync"
	"time"
)

// Manager serializes read-modify-write cycles per draft owner so two
// interactions from the same user never interleave on the same session.
// Different owners run in parallel.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
	now   func() time.Time
}

type ownerLock struct {
	mu       sync.Mutex
	refs     int // holders plus waiters; guarded by Manager.mu
	lastUsed time.Time
}

func NewManager() *Manager {
	return &Manager{
		locks: make(map[string]*ownerLock),
		now:   time.Now,
	}
}

// WithLock executes fn while holding the owner's mutex.
func (m *Manager) WithLock(ownerID string, fn func() error) error {
	m.mu.Lock()
	ol, ok := m.locks[ownerID]
	if !ok {
		ol = &ownerLock{}
		m.locks[ownerID] = ol
	}
	ol.refs++
	m.mu.Unlock()

	ol.mu.Lock()
	defer func() {
		ol.mu.Unlock()
		m.mu.Lock()
		ol.refs--
		ol.lastUsed = m.now()
		m.mu.Unlock()
	}()

	return fn()
}

// Cleanup drops idle locks not used within maxAge and returns how many were dropped.
func (m *Manager) Cleanup(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for owner, ol := range m.locks {
		if ol.refs == 0 && now.Sub(ol.lastUsed) > maxAge {
			delete(m.locks, owner)
			n++
		}
	}
	return n
}

// Len reports how many owners currently have a lock entry.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
