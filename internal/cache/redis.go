package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tkilaker/magazine/internal/logger"
	"github.com/tkilaker/magazine/internal/magazine"
)

// RedisConfig configures the Redis connection and slot key
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the record under a single Redis string key
type RedisStore struct {
	client *redis.Client
	key    string
	clock  Clock
}

// NewRedisStore connects and verifies the server is reachable
func NewRedisStore(ctx context.Context, cfg RedisConfig, clock Clock) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	if clock == nil {
		clock = time.Now
	}
	return &RedisStore{client: client, key: key, clock: clock}, nil
}

func (s *RedisStore) Load(ctx context.Context) *Record {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithField("key", s.key).Warnf("Failed to read cache from redis: %v", err)
		}
		return nil
	}
	return decodeOrNil(raw, "redis", s.key)
}

// Save sets the key with no expiry; freshness is judged from the timestamp
func (s *RedisStore) Save(ctx context.Context, p *magazine.Payload) error {
	data, err := Encode(NewRecord(p, s.clock()))
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache to redis: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
