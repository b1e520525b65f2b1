package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache is a file-based response cache with a TTL. Feed responses for a
// given date range are stable within the TTL window.
type Cache struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex
}

type entry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a cache rooted at dir with the given TTL.
func New(dir string, ttl time.Duration) *Cache {
	if dir == "" {
		dir = "cache/deals"
	}
	os.MkdirAll(dir, 0755)
	return &Cache{dir: dir, ttl: ttl}
}

// Get retrieves a cached payload, reporting whether it was present and fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.filePath(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return e.Data, true
}

// Set stores a payload under key.
func (c *Cache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{Key: key, Data: data, Timestamp: time.Now()}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(c.filePath(key), raw, 0644)
}

// GetOrFetch returns the cached payload for key, or fetches, stores, and
// returns a fresh one.
func (c *Cache) GetOrFetch(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}
	data, err := fetch()
	if err != nil {
		return nil, err
	}
	// Store best-effort; a failed write only costs a refetch.
	c.Set(key, data)
	return data, nil
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

// CleanupExpired removes entries past their TTL.
func (c *Cache) CleanupExpired() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > c.ttl {
			os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
	return nil
}

func (c *Cache) filePath(key string) string {
	hash := md5.Sum([]byte(key))
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", hash))
}

// Key builds a cache key from the feed parameters.
func Key(parts ...string) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += "|"
		}
		key += p
	}
	return key
}
