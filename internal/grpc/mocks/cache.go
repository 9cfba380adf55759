package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockCacher is a mock implementation of the cache interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockCacher struct {
	GetFunc          func(ctx context.Context, key string, dest any) error
	SetFunc          func(ctx context.Context, key string, value any, expiration time.Duration) error
	DeletePrefixFunc func(ctx context.Context, prefix string) (int64, error)
	CloseFunc        func() error
}

func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return errors.New("cache miss")
}

func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCacher) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	if m.DeletePrefixFunc != nil {
		return m.DeletePrefixFunc(ctx, prefix)
	}
	return 0, nil
}

func (m *MockCacher) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MemoryCache stores JSON encoded values in a map and reports misses with
// redis.Nil, the same way the Redis cache does.
type MemoryCache struct {
	mu       sync.Mutex
	data     map[string]memoryEntry
	GetCalls int
	SetCalls int
}

type memoryEntry struct {
	raw    []byte
	expiry time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.GetCalls++
	entry, ok := c.data[key]
	if !ok || (!entry.expiry.IsZero() && time.Now().After(entry.expiry)) {
		return redis.Nil
	}
	return json.Unmarshal(entry.raw, dest)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.SetCalls++
	entry := memoryEntry{raw: raw}
	if exp > 0 {
		entry.expiry = time.Now().Add(exp)
	}
	c.data[key] = entry
	return nil
}

func (c *MemoryCache) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

// Keys returns the number of stored entries.
func (c *MemoryCache) Keys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *MemoryCache) Close() error {
	return nil
}
