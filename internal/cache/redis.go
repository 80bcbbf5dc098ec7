package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the entry under a single Redis key.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisStore connects to Redis and verifies the connection. A zero ttl
// keeps the key without expiry.
func NewRedisStore(ctx context.Context, redisURL, key string, ttl time.Duration) (*RedisStore, error) {
	if key == "" {
		return nil, fmt.Errorf("cache key is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}, nil
}

// Close shuts down the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Load(ctx context.Context) (Entry, bool, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}
	entry, err := decode(data)
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (s *RedisStore) Save(ctx context.Context, entry Entry) error {
	data, err := encode(entry)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
