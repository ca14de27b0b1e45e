// Package cache stores upstream responses for a limited time.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a byte cache with per-entry expiry.
type Cache interface {
	// Get returns the value and true, or false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// compatibility check
var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is a process-local Cache.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	nowFunc func() time.Time
}

// NewMemory returns an empty Memory cache. nowFunc defaults to time.Now.
func NewMemory(nowFunc func() time.Time) *Memory {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Memory{
		entries: make(map[string]entry),
		nowFunc: nowFunc,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.nowFunc().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{
		value:   append([]byte(nil), value...),
		expires: m.nowFunc().Add(ttl),
	}
	return nil
}

// Redis is a Cache backed by a Redis server; keys are stored under prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a Redis cache.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}
