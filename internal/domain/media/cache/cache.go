// Package cache contains the resolution cache: a bounded, time-expiring
// memoization layer in front of the upstream resolver. Values are resolved
// URL lists only; metadata is never cached.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// ResolutionCache is an LRU cache with per-entry TTL. Expired entries are
// purged on read; the least-recently-accessed entry is evicted on insert at
// capacity. Safe for concurrent use.
type ResolutionCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*list.Element
	// access order, most recent at the front
	order *list.List

	now func() time.Time
}

type cacheEntry struct {
	key        string
	urls       []string
	insertedAt time.Time
}

// New returns an empty cache with the given capacity and TTL
func New(maxSize int, ttl time.Duration) *ResolutionCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &ResolutionCache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns the cached URL list for the key, or false on miss. An entry
// past its TTL is treated as absent and removed as a side effect.
func (c *ResolutionCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().Sub(entry.insertedAt) > c.ttl {
		c.removeLocked(elem)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return entry.urls, true
}

// Set stores a non-empty URL list. Empty lists are ignored: the cache never
// holds an empty result set. An existing entry is replaced wholesale.
func (c *ResolutionCache) Set(key string, urls []string) {
	if len(urls) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}

	for len(c.entries) >= c.maxSize {
		c.evictLRULocked()
	}

	entry := &cacheEntry{key: key, urls: urls, insertedAt: c.now()}
	c.entries[key] = c.order.PushFront(entry)
}

// Len returns the number of live entries
func (c *ResolutionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops all entries
func (c *ResolutionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

func (c *ResolutionCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

func (c *ResolutionCache) evictLRULocked() {
	back := c.order.Back()
	if back != nil {
		c.removeLocked(back)
	}
}
