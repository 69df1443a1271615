package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/prov-studio/prov-studio/internal/document"
)

const libraryKey = "prov-studio:documents"

// RedisStore persists the document library as a single JSON value in Redis.
// Useful when the editor is used from several machines against a shared
// instance.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to the Redis instance described by url (a
// redis:// URL) and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, key: libraryKey}, nil
}

// Load fetches and decodes the library. An absent key is an empty library;
// a fetch failure degrades to an empty library (logged) so the editor still
// starts when Redis is briefly unreachable.
func (s *RedisStore) Load(ctx context.Context) ([]document.Document, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		storeLog.Warn("fetch document library", "key", s.key, "error", err)
		return nil, nil
	}
	return decodeLibrary(data), nil
}

// Save replaces the stored library. No TTL: the library is durable state.
func (s *RedisStore) Save(ctx context.Context, docs []document.Document) error {
	data, err := encodeLibrary(docs)
	if err != nil {
		return fmt.Errorf("encode document library: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("store document library: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
