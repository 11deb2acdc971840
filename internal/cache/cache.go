// Package cache holds compiled queries so hot query strings are not
// re-lexed, re-parsed, and re-validated on every request. This is the only
// shared mutable structure in the engine.
package cache

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a bounded LRU keyed by the hash of (query text, schema
// version). Compiled queries embed schema-dependent type decisions, so an
// entry compiled under an older schema version misses naturally: its key
// includes the stale version and the stale entry ages out of the LRU.
//
// Thread safety: all methods are safe for concurrent use.
type Cache[V any] struct {
	entries *lru.Cache[uint64, V]
}

// New creates a cache bounded to size entries. Size must be positive.
func New[V any](size int) (*Cache[V], error) {
	entries, err := lru.New[uint64, V](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{entries: entries}, nil
}

// key hashes the query text together with the schema version so queries
// compiled against different schema snapshots never collide.
func key(text, schemaVersion string) uint64 {
	h := xxhash.New()
	h.WriteString(text)
	h.WriteString("\x00")
	h.WriteString(schemaVersion)
	return h.Sum64()
}

// Get returns the cached value for the query text under the given schema
// version.
func (c *Cache[V]) Get(text, schemaVersion string) (V, bool) {
	return c.entries.Get(key(text, schemaVersion))
}

// Put stores a compiled value for the query text under the given schema
// version, evicting the least recently used entry when full.
func (c *Cache[V]) Put(text, schemaVersion string, value V) {
	c.entries.Add(key(text, schemaVersion), value)
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}
