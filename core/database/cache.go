package database

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TableMetadata holds the discovered layout of one table in one environment.
type TableMetadata struct {
	// Environment is the environment the table was inspected in.
	Environment string `json:"environment"`

	// Table is the normalized, possibly qualified table name.
	Table string `json:"table"`

	// Columns are the column definitions in declared order.
	Columns []ColumnInfo `json:"columns"`

	// PrimaryKey lists the primary key columns in key order.
	PrimaryKey []string `json:"primary_key"`

	// Loaded is when the metadata was read.
	Loaded time.Time `json:"-"`
}

// MetadataLoader reads metadata on a cache miss.
type MetadataLoader func(ctx context.Context) (*TableMetadata, error)

// MetadataCache holds table metadata per environment and table for a TTL.
// Concurrent misses on the same key share one load.
type MetadataCache struct {
	mu      sync.RWMutex
	entries map[string]*TableMetadata
	sf      singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

// NewMetadataCache creates a cache. A zero ttl disables caching.
func NewMetadataCache(ttl time.Duration) *MetadataCache {
	return &MetadataCache{
		entries: make(map[string]*TableMetadata),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(environment, table string) string {
	return environment + "/" + table
}

func (c *MetadataCache) isExpired(m *TableMetadata) bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return c.now().Sub(m.Loaded) > c.ttl
}

// GetOrLoad returns cached metadata for environment and table, or calls load
// if it is missing or expired.
func (c *MetadataCache) GetOrLoad(ctx context.Context, environment, table string, load MetadataLoader) (*TableMetadata, error) {
	key := cacheKey(environment, table)

	// Fast path: check if metadata exists and is fresh
	c.mu.RLock()
	meta, exists := c.entries[key]
	c.mu.RUnlock()

	if exists && !c.isExpired(meta) {
		return meta, nil
	}

	// Slow path: load using singleflight to prevent stampedes
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		meta, exists := c.entries[key]
		c.mu.RUnlock()

		if exists && !c.isExpired(meta) {
			return meta, nil
		}

		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if loaded.Loaded.IsZero() {
			loaded.Loaded = c.now()
		}

		c.mu.Lock()
		c.entries[key] = loaded
		c.mu.Unlock()

		return loaded, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*TableMetadata), nil
}

// Invalidate removes the metadata for environment and table.
func (c *MetadataCache) Invalidate(environment, table string) {
	c.mu.Lock()
	delete(c.entries, cacheKey(environment, table))
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *MetadataCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*TableMetadata)
	c.mu.Unlock()
}

// Len returns the number of cached entries, expired ones included.
func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
