// Package repository holds the storage contracts shared by the memory, redis
// and sqlite implementations.
package repository

import (
	"context"
	"errors"

	"github.com/omarshaarawi/courtside/internal/models"
)

var ErrNotFound = errors.New("not found")

// RosterStore persists encoded roster documents by session key.
type RosterStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, doc []byte) error
	Delete(ctx context.Context, key string) error
}

// Directory is a read-only source of players and gameweeks.
type Directory interface {
	Players(ctx context.Context) ([]models.Player, error)
	Gameweeks(ctx context.Context) ([]models.Gameweek, error)
}
