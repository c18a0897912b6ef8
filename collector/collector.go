// Package collector fans a query out to all configured listing and forum
// sources, caches marketplace snapshots, and merges the results. A failed
// source costs its results, never the run.
package collector

import (
	"sync"

	"shopping-assistant/config"
	"shopping-assistant/models"
	"shopping-assistant/storage"
	"shopping-assistant/utils"
)

// ListingSource is anything that can produce raw listings for a query.
type ListingSource interface {
	Platform() string
	Fetch(query string) ([]*models.RawListing, error)
}

// ForumSource produces discussion posts for a query.
type ForumSource interface {
	Fetch(query string) ([]*models.ForumPost, error)
}

// Snapshot is the merged result of one collection run.
type Snapshot struct {
	Listings []*models.RawListing
	Posts    []*models.ForumPost
}

// Collector coordinates concurrent fetches across sources.
type Collector struct {
	sources []ListingSource
	forums  []ForumSource
	cache   *storage.Cache
	pool    *utils.WorkerPool
	logger  *utils.Logger
	maxPer  int
}

// New creates a Collector. cache may be nil to disable caching.
func New(cfg *config.Config, logger *utils.Logger, cache *storage.Cache,
	sources []ListingSource, forums []ForumSource) *Collector {
	return &Collector{
		sources: sources,
		forums:  forums,
		cache:   cache,
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		logger:  logger,
		maxPer:  cfg.MaxPerPlatform,
	}
}

// Collect runs every source for the query and returns whatever arrived.
// Listings keep per-source submission order; cross-source order follows the
// source registration order so repeated runs merge identically.
func (c *Collector) Collect(query string) *Snapshot {
	perSource := make([][]*models.RawListing, len(c.sources))
	perForum := make([][]*models.ForumPost, len(c.forums))
	var mu sync.Mutex

	for i, src := range c.sources {
		i, src := i, src
		c.pool.Submit(func() {
			listings := c.fetchListings(src, query)
			mu.Lock()
			perSource[i] = listings
			mu.Unlock()
		})
	}

	for i, f := range c.forums {
		i, f := i, f
		c.pool.Submit(func() {
			posts, err := f.Fetch(query)
			if err != nil {
				c.logger.Warn("[collector] Forum fetch failed: %v", err)
				return
			}
			mu.Lock()
			perForum[i] = posts
			mu.Unlock()
		})
	}

	c.pool.Wait()

	snap := &Snapshot{}
	for _, listings := range perSource {
		snap.Listings = append(snap.Listings, listings...)
	}
	for _, posts := range perForum {
		snap.Posts = append(snap.Posts, posts...)
	}

	c.logger.Info("[collector] Collected %d listings and %d forum posts for %q",
		len(snap.Listings), len(snap.Posts), query)
	return snap
}

func (c *Collector) fetchListings(src ListingSource, query string) []*models.RawListing {
	platform := src.Platform()

	if c.cache != nil {
		if cached, ok := c.cache.Get(platform, query); ok {
			c.logger.Info("[collector] Cache hit for %s/%q (%d listings)",
				platform, query, len(cached))
			return c.capListings(cached)
		}
	}

	listings, err := src.Fetch(query)
	if err != nil {
		c.logger.Warn("[collector] %s fetch failed: %v", platform, err)
		return nil
	}
	listings = c.capListings(listings)

	if c.cache != nil && len(listings) > 0 {
		if err := c.cache.Put(platform, query, listings); err != nil {
			c.logger.Warn("[collector] Cache write failed for %s: %v", platform, err)
		}
	}
	return listings
}

func (c *Collector) capListings(listings []*models.RawListing) []*models.RawListing {
	if c.maxPer > 0 && len(listings) > c.maxPer {
		return listings[:c.maxPer]
	}
	return listings
}
