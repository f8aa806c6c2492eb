package generation

import (
	"container/list"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/jonathan/portfolio-generator/internal/types"
)

// Cache is an in-memory LRU over generated bundles. The key is a coarse
// digest of the request: owner name, about text, project count, provider,
// style and model. Two requests that differ only in project details map to
// the same entry.
type Cache struct {
	mu      sync.Mutex
	cap     int
	order   *list.List
	entries map[uint64]*list.Element

	hits   int
	misses int
}

type cacheEntry struct {
	key   uint64
	value *types.GeneratedPortfolio
}

// CacheStats is the counters view exposed over the API.
type CacheStats struct {
	Size   int `json:"size"`
	Cap    int `json:"cap"`
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// NewCache creates an LRU cache holding at most cap bundles.
func NewCache(cap int) *Cache {
	return &Cache{
		cap:     cap,
		order:   list.New(),
		entries: make(map[uint64]*list.Element),
	}
}

// CacheKey digests the request fields that participate in cache identity.
func CacheKey(data *types.PortfolioData, provider, style, model string) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%s|%s|%s",
		data.PersonalInfo.Name, data.AboutMe, len(data.Projects), provider, style, model)
	return h.Sum64()
}

// Get returns the cached bundle for the key, marking it most recently used.
func (c *Cache) Get(key uint64) (*types.GeneratedPortfolio, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

// Put stores a bundle, evicting the least recently used entry when full.
func (c *Cache) Put(key uint64, value *types.GeneratedPortfolio) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.cap {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
}

// Clear drops all entries and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[uint64]*list.Element)
	c.hits = 0
	c.misses = 0
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Size:   c.order.Len(),
		Cap:    c.cap,
		Hits:   c.hits,
		Misses: c.misses,
	}
}
