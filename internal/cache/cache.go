// Package cache keeps API responses keyed by image URL so that a run never
// queries the recognition service twice for the same image.
package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/masmgr/logospots/config"
	"github.com/masmgr/logospots/internal/response"
)

// Backend persists the complete response mapping.
type Backend interface {
	ReadAll(ctx context.Context) (map[string]response.Response, error)
	WriteAll(ctx context.Context, entries map[string]response.Response) error
	Close() error
}

// ResponseCache is the in-memory response store. Save may be called from
// several goroutines.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]response.Response
	backend Backend
}

// New creates an empty cache persisted through backend. A nil backend keeps
// the cache in memory only.
func New(backend Backend) *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]response.Response),
		backend: backend,
	}
}

// Load returns the cached response for key.
func (c *ResponseCache) Load(key string) (response.Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

// Save stores entry under key, replacing any previous value.
func (c *ResponseCache) Save(key string, entry response.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// Keys returns the cached keys in sorted order.
func (c *ResponseCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of cached responses.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// PersistAll writes every entry to the backend.
func (c *ResponseCache) PersistAll(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}
	c.mu.RLock()
	snapshot := make(map[string]response.Response, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.RUnlock()

	if err := c.backend.WriteAll(ctx, snapshot); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// LoadAll replaces the in-memory entries with the backend contents.
func (c *ResponseCache) LoadAll(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}
	entries, err := c.backend.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("load cache: %w", err)
	}
	if entries == nil {
		entries = make(map[string]response.Response)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

// Close releases the backend.
func (c *ResponseCache) Close() error {
	if c.backend == nil {
		return nil
	}
	return c.backend.Close()
}

// Open creates the backend selected by cfg.
func Open(cfg config.CacheConfig) (Backend, error) {
	switch cfg.Backend {
	case config.CacheBackendFile, "":
		return NewFileBackend(cfg.Path), nil
	case config.CacheBackendSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.CacheBackendRedis:
		return OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Namespace)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
