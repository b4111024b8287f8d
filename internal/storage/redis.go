package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peteski22/offersync/internal/sync"
)

// RedisAPI defines the Redis commands used by the snapshot store. *redis.Client satisfies it.
type RedisAPI interface {
	// Get returns the value stored at key.
	Get(ctx context.Context, key string) *redis.StringCmd

	// Set stores value at key with an optional expiration.
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisSnapshotStore keeps each snapshot as a JSON string value.
type RedisSnapshotStore struct {
	// client is the Redis client.
	client RedisAPI

	// closer releases the connection pool when the store owns it.
	closer func() error

	// ttl expires snapshots that are not refreshed. Zero keeps them forever.
	ttl time.Duration
}

// Close releases the Redis connection pool if the store created it.
func (s *RedisSnapshotStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Get returns the snapshot stored under key, or nil if there is none.
func (s *RedisSnapshotStore) Get(ctx context.Context, key string) (*sync.Result, error) {
	if key == "" {
		return nil, errors.New("snapshot key is required")
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting snapshot from Redis: %w", err)
	}

	return decodeResult(data)
}

// Put replaces the snapshot stored under key.
func (s *RedisSnapshotStore) Put(ctx context.Context, key string, result *sync.Result) error {
	if key == "" {
		return errors.New("snapshot key is required")
	}

	data, err := encodeResult(result)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("setting snapshot in Redis: %w", err)
	}

	return nil
}

// NewRedisSnapshotStore creates a snapshot store on an existing Redis client.
func NewRedisSnapshotStore(client RedisAPI, ttl time.Duration) (*RedisSnapshotStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("ttl cannot be negative, got %v", ttl)
	}

	return &RedisSnapshotStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// OpenRedisSnapshotStore connects to the Redis server at redisURL and checks it is reachable.
func OpenRedisSnapshotStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisSnapshotStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	store, err := NewRedisSnapshotStore(client, ttl)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	store.closer = client.Close

	return store, nil
}
