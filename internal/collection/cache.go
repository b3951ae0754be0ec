// Package collection maintains the user's saved-album list: an in-memory
// cache of the remote collection, a resolver that answers status questions
// against it, and a store that keeps cache and remote in sync.
package collection

import (
	"sync"

	"github.com/desertthunder/waxlog/internal/models"
)

// Cache holds the full saved-album collection in memory. All access goes
// through the mutex so the resolver can be queried while a sync is running.
type Cache struct {
	mu      sync.RWMutex
	records []models.SavedAlbum
	loaded  bool
	loadErr error
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps the entire cached collection for a freshly fetched one.
func (c *Cache) Replace(records []models.SavedAlbum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.loaded = true
	c.loadErr = nil
}

// Fail records a fetch failure. The cache stays unusable until a later
// Replace succeeds, so callers never act on a partial collection.
func (c *Cache) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.loaded = false
	c.loadErr = err
}

// Reset clears all cached state, for logout.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.loaded = false
	c.loadErr = nil
}

// Loaded reports whether the cache holds a complete collection, and the error
// from the last failed fetch if not.
func (c *Cache) Loaded() (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded, c.loadErr
}

// Records returns a copy of the cached collection in fetch order.
func (c *Cache) Records() []models.SavedAlbum {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.SavedAlbum, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Append adds a newly created record to the cache.
func (c *Cache) Append(record models.SavedAlbum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
}

// Update replaces the record with the given id. It reports whether a record
// was found.
func (c *Cache) Update(recordID string, record models.SavedAlbum) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].RecordID == recordID {
			c.records[i] = record
			return true
		}
	}
	return false
}

// Remove deletes the record with the given id. It reports whether a record
// was found.
func (c *Cache) Remove(recordID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].RecordID == recordID {
			c.records = append(c.records[:i], c.records[i+1:]...)
			return true
		}
	}
	return false
}
