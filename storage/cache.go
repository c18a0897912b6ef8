package storage

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shopping-assistant/models"
)

// Cache is a JSON-file cache of per-platform search snapshots, so repeated
// queries within the TTL don't hit the marketplaces again. Expired or
// corrupt entries are treated as misses, never as errors.
type Cache struct {
	dir string
	ttl time.Duration
}

type cacheEnvelope struct {
	Timestamp time.Time            `json:"timestamp"`
	Listings  []*models.RawListing `json:"listings"`
}

// NewCache creates the cache directory if needed.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cache: create dir %q: %w", dir, err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Get returns the cached listings for a platform/query pair, or (nil, false)
// on a miss.
func (c *Cache) Get(platform, query string) ([]*models.RawListing, bool) {
	data, err := os.ReadFile(c.path(platform, query))
	if err != nil {
		return nil, false
	}

	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	if time.Since(env.Timestamp) > c.ttl {
		return nil, false
	}
	return env.Listings, true
}

// Put stores a platform/query snapshot, stamping it with the current time.
func (c *Cache) Put(platform, query string, listings []*models.RawListing) error {
	env := cacheEnvelope{Timestamp: time.Now(), Listings: listings}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}
	if err := os.WriteFile(c.path(platform, query), data, 0644); err != nil {
		return fmt.Errorf("cache: write: %w", err)
	}
	return nil
}

func (c *Cache) path(platform, query string) string {
	key := strings.ToLower(platform + ":" + query)
	sum := md5.Sum([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}
