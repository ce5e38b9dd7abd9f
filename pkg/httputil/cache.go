package httputil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/stacknotes/pkg/observability"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the cache TTL. The stale file is left in place; the next Set
// replaces it.
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON-marshalable values as files named by the SHA-256 of
// their key. Entries expire by file modification time; a TTL of 0 never
// expires.
//
// A Cache is not safe for concurrent use of the same key from several
// goroutines. Separate processes can share a directory.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// DefaultDir returns ~/.cache/stacknotes/http, honouring XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "stacknotes", "http"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "stacknotes", "http"), nil
}

// NewCache creates a Cache in dir (DefaultDir when empty) with the given TTL.
// The directory is created if missing.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the time-to-live for entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get looks up key and unmarshals the entry into v.
//
//   - (true, nil): hit, v populated
//   - (false, nil): miss, v unchanged
//   - (false, ErrExpired): stale entry, v unchanged
//   - (false, err): I/O or decode failure
func (c *Cache) Get(key string, v any) (bool, error) {
	return c.GetContext(context.Background(), key, v)
}

// GetContext is Get with a context for the cache hooks.
func (c *Cache) GetContext(ctx context.Context, key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		observability.Cache().OnCacheMiss(ctx, c.namespace())
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		observability.Cache().OnCacheMiss(ctx, c.namespace())
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	observability.Cache().OnCacheHit(ctx, c.namespace())
	return true, nil
}

// Set marshals v and stores it under key, refreshing the entry's age.
func (c *Cache) Set(key string, v any) error {
	return c.SetContext(context.Background(), key, v)
}

// SetContext is Set with a context for the cache hooks.
func (c *Cache) SetContext(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.keyPath(c.prefix+key), data, 0o644); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.namespace(), len(data))
	return nil
}

// Namespace returns a view of the cache whose keys are prefixed with prefix.
// Namespaces chain: c.Namespace("npm:").Namespace("v1:") uses "npm:v1:".
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

// Clear removes every entry in the cache directory, across all namespaces,
// and returns how many files were deleted.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err == nil {
			n++
		}
	}
	return n, nil
}

// namespace returns the prefix without its trailing separator, for metrics labels.
func (c *Cache) namespace() string {
	ns := strings.TrimRight(c.prefix, ":")
	if ns == "" {
		return "default"
	}
	return ns
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
