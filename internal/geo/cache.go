package geo

import (
	"container/list"
	"sync"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Cache memoizes postcode-to-coordinate lookups. It is safe for concurrent
// use and size-bounded with LRU eviction, so long batch jobs keep a
// predictable memory footprint.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List
	entries map[string]*list.Element
}

type cacheEntry struct {
	key   string
	coord Coordinate
}

// NewCache creates a cache bounded to maxSize entries. Sizes below 1 fall
// back to a default of 4096.
func NewCache(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = 4096
	}
	return &Cache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get returns the cached coordinate for a normalized postcode.
func (c *Cache) Get(postcode string) (Coordinate, bool) {
	key := NormalizePostcode(postcode)
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return Coordinate{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).coord, true
}

// Put stores a coordinate, evicting the least recently used entry when full.
func (c *Cache) Put(postcode string, coord Coordinate) {
	key := NormalizePostcode(postcode)
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).coord = coord
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, coord: coord})
	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
