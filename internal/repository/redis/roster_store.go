package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/omarshaarawi/courtside/internal/repository"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "roster:"

// RosterStore keeps roster documents in Redis, one key per session with a
// sliding TTL refreshed on every save.
type RosterStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ repository.RosterStore = (*RosterStore)(nil)

func NewRosterStore(client *redis.Client, ttl time.Duration) *RosterStore {
	return &RosterStore{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func rosterKey(key string) string {
	return keyPrefix + key
}

func (s *RosterStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, rosterKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading roster %s: %w", key, err)
	}
	return data, nil
}

func (s *RosterStore) Save(ctx context.Context, key string, doc []byte) error {
	if err := s.client.Set(ctx, rosterKey(key), doc, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving roster %s: %w", key, err)
	}
	return nil
}

func (s *RosterStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, rosterKey(key)).Err(); err != nil {
		return fmt.Errorf("deleting roster %s: %w", key, err)
	}
	return nil
}
