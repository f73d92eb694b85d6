package memory

import (
	"context"
	"sync"
	"time"

	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/repository"
)

// Snapshot is the player and gameweek directory as last fetched.
type Snapshot struct {
	Players     []models.Player
	Gameweeks   []models.Gameweek
	LastUpdated time.Time
}

type Repository struct {
	snapshot *Snapshot
	mu       sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveSnapshot(snapshot *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = snapshot
}

func (r *Repository) GetSnapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// RosterStore keeps roster documents in process memory.
type RosterStore struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

var _ repository.RosterStore = (*RosterStore)(nil)

func NewRosterStore() *RosterStore {
	return &RosterStore{docs: make(map[string][]byte)}
}

func (s *RosterStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (s *RosterStore) Save(_ context.Context, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), doc...)
	return nil
}

func (s *RosterStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}
