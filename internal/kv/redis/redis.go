// Package redis keeps slots as plain string keys on a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrEmptyConnectionURL = errors.New("empty redis connection URL")

// Store wraps a go-redis client for whole-blob reads and writes.
type Store struct {
	db redis.UniversalClient
}

func NewStore(client redis.UniversalClient) *Store {
	return &Store{db: client}
}

// Connect parses url, pings the server within timeout and returns a ready Store.
func Connect(ctx context.Context, url string, timeout time.Duration) (*Store, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &Store{db: client}, nil
}

// Load returns nil, nil when the key does not exist (redis.Nil).
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := s.db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Save replaces the key without expiration.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if err := s.db.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
