// Package cache provides the two bounded, insertion-ordered lookup caches
// the orchestrator keeps for the process lifetime: IndexCache (keyed by the
// SHA-256 of a repository index file) and ShowCache (keyed by an artifact's
// md5sum string). Both evict the oldest entry once full; a miss is always a
// plain recomputation, never an error.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// IndexCacheSize is the hard cap on parsed-index snapshots kept in memory.
const IndexCacheSize = 20

// ShowCacheSize is the hard cap on parsed package-metadata descriptors kept
// in memory.
const ShowCacheSize = 100

// IndexEntries is whatever shape the IndexParser produces for one repo/arch
// probe; the cache itself is agnostic to it.
type IndexEntries any

// IndexCache caches parsed repository-index snapshots by content hash.
type IndexCache struct {
	lru *lru.Cache[string, IndexEntries]
}

// NewIndexCache creates an IndexCache bounded to IndexCacheSize entries.
func NewIndexCache() *IndexCache {
	c, _ := lru.New[string, IndexEntries](IndexCacheSize)
	return &IndexCache{lru: c}
}

// Get returns the cached entries for a content hash, if present. A hit does
// not change the entry's eviction order.
func (c *IndexCache) Get(sha256Hex string) (IndexEntries, bool) {
	return c.lru.Peek(sha256Hex)
}

// Put stores parsed entries under a content hash, evicting the oldest entry
// if the cache is already at capacity.
func (c *IndexCache) Put(sha256Hex string, entries IndexEntries) {
	c.lru.Add(sha256Hex, entries)
}

// Len reports the number of cached entries.
func (c *IndexCache) Len() int {
	return c.lru.Len()
}

// ShowEntry is whatever shape the orchestrator's show() descriptor takes;
// the cache itself is agnostic to it.
type ShowEntry any

// ShowCache caches package metadata descriptors by artifact md5sum.
type ShowCache struct {
	lru *lru.Cache[string, ShowEntry]
}

// NewShowCache creates a ShowCache bounded to ShowCacheSize entries.
func NewShowCache() *ShowCache {
	c, _ := lru.New[string, ShowEntry](ShowCacheSize)
	return &ShowCache{lru: c}
}

// Get returns the cached descriptor for an artifact md5sum, if present. A
// hit does not change the entry's eviction order.
func (c *ShowCache) Get(md5sum string) (ShowEntry, bool) {
	return c.lru.Peek(md5sum)
}

// Put stores a descriptor under its artifact md5sum, evicting the oldest
// entry if the cache is already at capacity.
func (c *ShowCache) Put(md5sum string, entry ShowEntry) {
	c.lru.Add(md5sum, entry)
}

// Len reports the number of cached entries.
func (c *ShowCache) Len() int {
	return c.lru.Len()
}
