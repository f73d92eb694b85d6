package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/omarshaarawi/courtside/internal/repository"
)

var ErrUnknownSession = errors.New("unknown session")

// Manager owns every live session, keyed by chat id or HTTP session id.
type Manager struct {
	services        Services
	dir             Directory
	store           repository.RosterStore
	defaultGameweek int

	mu       sync.Mutex
	sessions map[string]*Session
	lastUsed map[string]time.Time
	now      func() time.Time
}

func NewManager(services Services, dir Directory, store repository.RosterStore, defaultGameweek int) *Manager {
	return &Manager{
		services:        services,
		dir:             dir,
		store:           store,
		defaultGameweek: defaultGameweek,
		sessions:        make(map[string]*Session),
		lastUsed:        make(map[string]time.Time),
		now:             time.Now,
	}
}

// Get returns the session for key, creating it and restoring its persisted
// roster on first use.
func (m *Manager) Get(ctx context.Context, key string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[key]
	if !ok {
		s = newSession(key, m.defaultGameweek, m.services, m.dir, m.store)
		m.sessions[key] = s
	}
	m.lastUsed[key] = m.now()
	m.mu.Unlock()

	if err := s.ensureRestored(ctx); err != nil {
		m.mu.Lock()
		if m.sessions[key] == s {
			delete(m.sessions, key)
			delete(m.lastUsed, key)
		}
		m.mu.Unlock()
		return nil, fmt.Errorf("restoring session %s: %w", key, err)
	}
	return s, nil
}

// Find returns an existing session, reviving it from the store when it was
// persisted by an earlier process. Unknown keys yield ErrUnknownSession.
func (m *Manager) Find(ctx context.Context, key string) (*Session, error) {
	m.mu.Lock()
	_, live := m.sessions[key]
	m.mu.Unlock()
	if live {
		return m.Get(ctx, key)
	}

	_, err := m.store.Load(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("session %s: %w", key, ErrUnknownSession)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", key, err)
	}
	return m.Get(ctx, key)
}

// Create starts a session under a fresh random id.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	return m.Get(ctx, uuid.NewString())
}

func (m *Manager) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	delete(m.lastUsed, key)
	m.mu.Unlock()

	if ok {
		s.mu.Lock()
		s.panels.cancelAll()
		s.mu.Unlock()
	}
	if err := m.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("deleting session %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("session %s: %w", key, ErrUnknownSession)
	}
	return nil
}

// EvictIdle drops sessions not used for longer than idle and returns how many
// went. Their rosters stay in the store, so Find and Get revive them later.
func (m *Manager) EvictIdle(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var evicted []*Session
	for key, used := range m.lastUsed {
		if used.Before(cutoff) {
			evicted = append(evicted, m.sessions[key])
			delete(m.sessions, key)
			delete(m.lastUsed, key)
		}
	}
	m.mu.Unlock()

	for _, s := range evicted {
		s.mu.Lock()
		s.panels.cancelAll()
		s.mu.Unlock()
	}
	return len(evicted)
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
