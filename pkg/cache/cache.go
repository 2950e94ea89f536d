// Package cache provides a thread-safe LRU cache for compiled XPath expressions.
//
// The evaluator uses it when caching is enabled, so that a query string
// applied to many documents is parsed only once.
//
// # Example
//
//	c := cache.New(1024)
//	expr, err := c.GetOrCompile("//item[@id]", func() (*types.Expression, error) {
//	    return parser.Compile("//item[@id]")
//	})
package cache

import (
	"container/list"
	"sync"

	"github.com/sandrolain/goxpath/pkg/types"
)

// DefaultCapacity is used when New receives a non-positive capacity.
const DefaultCapacity = 256

type entry struct {
	query string
	expr  *types.Expression
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Capacity  int
}

// Cache is an LRU cache of compiled expressions keyed by query text.
// Once full, the least recently used expression is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	byQuery  map[string]*list.Element

	hits, misses, evictions uint64
}

// New creates a cache holding at most capacity expressions.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		byQuery:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the expression compiled from query and marks it as recently used.
func (c *Cache) Get(query string) (*types.Expression, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byQuery[query]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*entry).expr, true
}

// Set stores expr under query, evicting the least recently used entry when
// the cache is full.
func (c *Cache) Set(query string, expr *types.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byQuery[query]; ok {
		el.Value.(*entry).expr = expr
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.byQuery[query] = c.order.PushFront(&entry{query: query, expr: expr})
}

// GetOrCompile returns the cached expression for query, calling compile and
// caching its result on a miss. Compile errors are not cached.
func (c *Cache) GetOrCompile(query string, compile func() (*types.Expression, error)) (*types.Expression, error) {
	if expr, ok := c.Get(query); ok {
		return expr, nil
	}
	expr, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(query, expr)
	return expr, nil
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the maximum number of cached expressions.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       c.order.Len(),
		Capacity:  c.capacity,
	}
}

// Invalidate drops the expression cached for query.
func (c *Cache) Invalidate(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.byQuery[query]; ok {
		c.order.Remove(el)
		delete(c.byQuery, query)
	}
}

// Clear drops every cached expression. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.byQuery = make(map[string]*list.Element, c.capacity)
}

// must be called with c.mu held
func (c *Cache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.byQuery, el.Value.(*entry).query)
	c.evictions++
}
