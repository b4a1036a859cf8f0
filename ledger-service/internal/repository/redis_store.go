package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	sharedredis "github.com/Preet1920/finebookeasyaccounting/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

const sessionKey = "finebook-currentUser"

// RedisRecordStore keeps the durable record under a single key that never expires.
type RedisRecordStore struct {
	cache *sharedredis.ViewCache[json.RawMessage]
	key   string
}

func NewRedisRecordStore(client *goredis.Client) *RedisRecordStore {
	return &RedisRecordStore{
		cache: sharedredis.NewViewCache[json.RawMessage](client, 0),
		key:   LedgerRecordKey,
	}
}

func (s *RedisRecordStore) ReadRecord(ctx context.Context) ([]byte, error) {
	raw, err := s.cache.Load(ctx, s.key)
	if errors.Is(err, sharedredis.ErrMiss) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return *raw, nil
}

func (s *RedisRecordStore) WriteRecord(ctx context.Context, data []byte) error {
	raw := json.RawMessage(data)
	return s.cache.Store(ctx, s.key, &raw)
}

// RedisSessionStore keeps the session pointer under a key with a TTL, so a
// session survives restarts but not indefinitely.
type RedisSessionStore struct {
	cache *sharedredis.ViewCache[string]
	key   string
}

func NewRedisSessionStore(client *goredis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		cache: sharedredis.NewViewCache[string](client, ttl),
		key:   sessionKey,
	}
}

func (s *RedisSessionStore) Get(ctx context.Context) (string, bool, error) {
	id, err := s.cache.Load(ctx, s.key)
	if errors.Is(err, sharedredis.ErrMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return *id, *id != "", nil
}

func (s *RedisSessionStore) Set(ctx context.Context, userID string) error {
	return s.cache.Store(ctx, s.key, &userID)
}

func (s *RedisSessionStore) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, s.key)
}
