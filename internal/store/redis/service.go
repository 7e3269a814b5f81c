package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/store"
)

// Store persists the record list as one JSON value in Redis. Keys never expire.
type Store struct {
	client *redis.Client
	name   string
}

// NewStore creates a Redis-backed persistence. name defaults to store.DefaultKey.
func NewStore(client *redis.Client, name string) *Store {
	if name == "" {
		name = store.DefaultKey
	}
	return &Store{
		client: client,
		name:   name,
	}
}

func (s *Store) Name() string { return "redis" }

// Key returns the Redis key the snapshot lives under.
func (s *Store) Key() string { return SnapshotKey(s.name) }

// Load reads the snapshot. A missing key is an empty list.
func (s *Store) Load(ctx context.Context) ([]domain.Aquarium, error) {
	data, err := s.client.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Aquarium{}, nil
		}
		return nil, fmt.Errorf("failed to get aquariums: %w", err)
	}

	var records []domain.Aquarium
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", store.ErrCorruptState, s.Key(), err)
	}
	if records == nil {
		records = []domain.Aquarium{}
	}
	return records, nil
}

// Save overwrites the snapshot and its timestamp in one transaction.
func (s *Store) Save(ctx context.Context, records []domain.Aquarium) error {
	if records == nil {
		records = []domain.Aquarium{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal aquariums: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.Key(), data, 0)
		pipe.Set(ctx, UpdatedAtKey(s.name), time.Now().UTC().Format(time.RFC3339), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save aquariums: %w", err)
	}
	return nil
}

// UpdatedAt returns when the snapshot was last written, zero if never.
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, error) {
	raw, err := s.client.Get(ctx, UpdatedAtKey(s.name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get update time: %w", err)
	}
	return time.Parse(time.RFC3339, raw)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
