// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package boundary

import (
	"container/list"
	"sync"
)

// CacheKey keys the detection cache by document fingerprint and page
// count: two documents with the same text but different
// page counts must not collide.
type CacheKey struct {
	Fingerprint string
	TotalPages  int
}

type cacheEntry struct {
	key   CacheKey
	value []Boundary
}

// Cache is a process-wide, mutex-guarded LRU cache of final BoundarySets.
// Misses are idempotent — a race between two goroutines computing the
// same key is acceptable double work, never corruption.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[CacheKey]*list.Element
	order    *list.List
}

// NewCache builds a cache with the given capacity (default 100).
// Eviction happens on insertion, oldest first.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 100
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[CacheKey]*list.Element),
		order:    list.New(),
	}
}

func (c *Cache) Get(key CacheKey) ([]Boundary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *Cache) Put(key CacheKey, value []Boundary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, value: value})
	c.items[key] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}
