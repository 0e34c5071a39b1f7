package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/analytics"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// memoryCache is a process-local analytics.Cache used by tests and demos.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	nowFunc func() time.Time
}

var _ analytics.Cache = (*memoryCache)(nil) // interface compliance check

func NewMemoryCache() *memoryCache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		nowFunc: time.Now,
	}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && c.nowFunc().After(entry.expiresAt)) {
		return analytics.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return errors.Wrap(err, "unmarshalling cached value")
	}
	return nil
}

func (c *memoryCache) Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrap(err, "marshalling value")
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.nowFunc().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expiresAt: expiresAt}
	c.mu.Unlock()
	return nil
}
