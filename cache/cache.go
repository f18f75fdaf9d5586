// Package cache keeps recent extraction results in memory so repeated API
// calls for the same URL can skip the network.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/use-agent/brandseed/models"
)

// maxRetention bounds how long any entry is kept, whatever max age callers ask for.
const maxRetention = time.Hour

type entry struct {
	key       string
	result    *models.ExtractionResult
	createdAt time.Time
}

// Cache is an insertion-ordered cache: at capacity the oldest entry goes.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List // front = newest
	maxEntries int
	now        func() time.Time
}

// New creates a Cache holding at most maxEntries results. maxEntries <= 0
// disables storage. A background goroutine drops entries older than an
// hour every 5 minutes.
func New(maxEntries int) *Cache {
	c := &Cache{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
	go c.cleanupLoop()
	return c
}

// Key identifies a result by URL and name word budget.
func Key(url string, maxWords int) string {
	sum := sha256.Sum256([]byte(url + "|" + strconv.Itoa(maxWords)))
	return hex.EncodeToString(sum[:])
}

// Get returns a result younger than maxAge. maxAge <= 0 always misses.
func (c *Cache) Get(key string, maxAge time.Duration) (*models.ExtractionResult, bool) {
	if maxAge <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().Sub(e.createdAt) > maxAge {
		return nil, false
	}
	return e.result, true
}

// Set stores res under key, replacing any previous value.
func (c *Cache) Set(key string, res *models.ExtractionResult) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
	}
	c.items[key] = c.order.PushFront(&entry{key: key, result: res, createdAt: c.now()})

	for c.order.Len() > c.maxEntries {
		c.removeLocked(c.order.Back())
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) removeLocked(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

// prune drops entries older than maxRetention. Entries are ordered by
// creation, so it stops at the first fresh one from the back.
func (c *Cache) prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-maxRetention)
	for el := c.order.Back(); el != nil; el = c.order.Back() {
		if !el.Value.(*entry).createdAt.Before(cutoff) {
			return
		}
		c.removeLocked(el)
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.prune()
	}
}
