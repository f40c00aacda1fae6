package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	data     T
	storedAt time.Time
	ttl      time.Duration
	seq      uint64
}

// Cache is a TTL and size bounded key-value store. Expired entries are
// evicted lazily on Get; when the store is full the oldest-inserted entry is
// evicted first (FIFO, not LRU).
type Cache[T any] struct {
	mu       sync.Mutex
	entries  map[string]entry[T]
	capacity int
	seq      uint64
	now      func() time.Time
}

const DefaultCapacity = 100

// New returns a cache bounded to capacity entries. A non-positive capacity
// falls back to DefaultCapacity.
func New[T any](capacity int) *Cache[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[T]{
		entries:  make(map[string]entry[T]),
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the value stored under key, or the zero value and false when the
// key is absent or its TTL has elapsed.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if e.ttl > 0 && c.now().After(e.storedAt.Add(e.ttl)) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.data, true
}

// Set stores data under key for ttl. A zero ttl means the entry lives for the
// process lifetime (still subject to capacity eviction). Inserting a new key
// into a full cache evicts the single oldest-inserted entry.
func (c *Cache[T]) Set(key string, data T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.seq++
	c.entries[key] = entry[T]{data: data, storedAt: c.now(), ttl: ttl, seq: c.seq}
}

// Clear drops every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) evictOldestLocked() {
	var oldestKey string
	var oldestSeq uint64
	first := true
	for k, e := range c.entries {
		if first || e.seq < oldestSeq {
			oldestKey, oldestSeq = k, e.seq
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
