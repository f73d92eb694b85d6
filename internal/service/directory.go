package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/omarshaarawi/courtside/internal/api/fantasy"
	"github.com/omarshaarawi/courtside/internal/directory"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/repository/memory"
)

const directoryMaxAge = 24 * time.Hour

// DirectoryService keeps the player pool and gameweek calendar in the memory
// repository and refetches them once they are a day old.
type DirectoryService struct {
	api  *fantasy.API
	repo *memory.Repository

	mu       sync.Mutex
	index    *directory.Index
	indexFor *memory.Snapshot
}

func NewDirectoryService(api *fantasy.API, repo *memory.Repository) *DirectoryService {
	return &DirectoryService{api: api, repo: repo}
}

// Refresh fetches both directories and replaces the snapshot.
func (s *DirectoryService) Refresh(ctx context.Context) (*memory.Snapshot, error) {
	players, err := s.api.GetPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	gameweeks, err := s.api.GetGameweeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching gameweeks: %w", err)
	}

	snapshot := &memory.Snapshot{
		Players:     players,
		Gameweeks:   gameweeks,
		LastUpdated: time.Now(),
	}
	s.repo.SaveSnapshot(snapshot)
	slog.Info("Directory refreshed", "players", len(players), "gameweeks", len(gameweeks))
	return snapshot, nil
}

func (s *DirectoryService) snapshot(ctx context.Context) (*memory.Snapshot, error) {
	snapshot := s.repo.GetSnapshot()
	if snapshot == nil || time.Since(snapshot.LastUpdated) > directoryMaxAge {
		fresh, err := s.Refresh(ctx)
		if err != nil {
			if snapshot != nil {
				slog.Warn("Serving stale directory", "age", time.Since(snapshot.LastUpdated), "error", err)
				return snapshot, nil
			}
			return nil, err
		}
		return fresh, nil
	}
	return snapshot, nil
}

// Index returns the player index for the current snapshot, rebuilding it
// only when the snapshot changed.
func (s *DirectoryService) Index(ctx context.Context) (*directory.Index, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil || s.indexFor != snapshot {
		s.index = directory.NewIndex(snapshot.Players)
		s.indexFor = snapshot
	}
	return s.index, nil
}

func (s *DirectoryService) Gameweeks(ctx context.Context) ([]models.Gameweek, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Gameweeks, nil
}

// CurrentGameweek returns the active gameweek, or the first upcoming one
// between weeks.
func (s *DirectoryService) CurrentGameweek(ctx context.Context) (models.Gameweek, bool, error) {
	gameweeks, err := s.Gameweeks(ctx)
	if err != nil {
		return models.Gameweek{}, false, err
	}
	for _, gw := range gameweeks {
		if gw.Status == models.GameweekActive {
			slog.Info("Current gameweek", "gameweek", gw.ID)
			return gw, true, nil
		}
	}
	for _, gw := range gameweeks {
		if gw.Status == models.GameweekUpcoming {
			return gw, true, nil
		}
	}
	return models.Gameweek{}, false, nil
}
