package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/originscan/internal/model"
)

// Cache defines the interface for caching embeddings and search results
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key; parts are hashed so keys stay filesystem safe
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "originscan_v1_" + namespace + "_" + hex.EncodeToString(h.Sum(nil))
}

// GetJSON decodes a cached JSON value into dst
func GetJSON(c Cache, key string, dst any) bool {
	raw, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// SetJSON stores value as JSON
func SetJSON(c Cache, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(key, raw, ttl)
}

// New builds the cache described by cfg: layered memory+disk when a
// directory is configured, memory only otherwise, no-op when disabled
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Noop{}
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, filepath.Clean(cfg.Dir), cfg.DiskTTL)
}

// Noop is a cache that never stores anything
type Noop struct{}

func (Noop) Get(string) ([]byte, bool)               { return nil, false }
func (Noop) Set(string, []byte, time.Duration) error { return nil }
func (Noop) Delete(string) error                     { return nil }
func (Noop) Clear() error                            { return nil }
