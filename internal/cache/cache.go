package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// Cache stores marshalled API responses keyed by request parameters so
// connectors can skip repeat network calls inside the TTL window.
type Cache interface {
	Get(prefix string, params map[string]any) ([]byte, bool)
	Set(prefix string, params map[string]any, value []byte)
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates a memory cache with the given entry TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached bytes for prefix+params, if present and unexpired.
func (c *Memory) Get(prefix string, params map[string]any) ([]byte, bool) {
	key := Key(prefix, params)
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true
}

// Set stores value under prefix+params for the cache's TTL.
func (c *Memory) Set(prefix string, params map[string]any, value []byte) {
	key := Key(prefix, params)
	stored := make([]byte, len(value))
	copy(stored, value)
	c.mu.Lock()
	c.entries[key] = entry{data: stored, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Key derives a stable cache key from a prefix and request parameters. Map
// marshalling sorts keys, so identical params always hash identically.
func Key(prefix string, params map[string]any) string {
	raw, _ := json.Marshal(params)
	sum := sha256.Sum256(raw)
	return "sourceror:" + prefix + ":" + hex.EncodeToString(sum[:])[:12]
}

// Nop is a cache that stores nothing. Used when caching is disabled.
type Nop struct{}

func (Nop) Get(string, map[string]any) ([]byte, bool) { return nil, false }
func (Nop) Set(string, map[string]any, []byte)        {}
