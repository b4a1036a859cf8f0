package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Load when the key does not exist.
var ErrMiss = errors.New("redis: key not found")

// ViewCache is a generic JSON-backed Redis value bound to type T. Each instance
// holds a Redis client and an optional TTL (0 for keys that never expire).
//
// Get/Set/Delete swallow errors and log them; Load/Store report them so callers
// that treat Redis as a store of record can decide what a failure means.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewViewCache creates a ViewCache backed by the provided Redis client.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Load retrieves and unmarshals the value under key. A missing key yields ErrMiss.
func (c *ViewCache[T]) Load(ctx context.Context, key string) (*T, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &v, nil
}

// Store marshals value and writes it under key with the cache TTL.
func (c *ViewCache[T]) Store(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Get returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	v, err := c.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Printf("ViewCache: %v", err)
		}
		return nil, false
	}
	return v, true
}

// Set stores value under key. Errors are logged rather than returned.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	if err := c.Store(ctx, key, value); err != nil {
		log.Printf("ViewCache: %v", err)
	}
}

// Delete removes a key from Redis.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
