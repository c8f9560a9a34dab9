package when

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the number of clauses a Cache holds by default.
const DefaultCacheSize = 256

// Cache is an LRU cache of parsed when-clauses keyed by clause text.
// Parse failures are cached too so a broken clause is parsed once.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	text string
	expr Expr
	err  error
}

// NewCache creates a parse cache holding at most maxSize clauses.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the parsed expression for text, parsing it on a miss.
func (c *Cache) Get(text string) (Expr, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[text]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry) //nolint:errcheck // list only contains *cacheEntry
		return entry.expr, entry.err
	}

	expr, err := Parse(text)
	if c.lru.Len() >= c.maxSize {
		c.evictOldest()
	}
	c.items[text] = c.lru.PushFront(&cacheEntry{text: text, expr: expr, err: err})
	return expr, err
}

// Evaluate evaluates a clause against ctx. An unparsable clause is false.
func (c *Cache) Evaluate(text string, ctx Context) bool {
	expr, err := c.Get(text)
	if err != nil {
		return false
	}
	return Evaluate(expr, ctx)
}

// Err returns the parse error for text, or nil if it parses.
func (c *Cache) Err(text string) error {
	_, err := c.Get(text)
	return err
}

// Errors returns the parse errors of the cached clauses, keyed by text.
func (c *Cache) Errors() map[string]error {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(map[string]error)
	for text, elem := range c.items {
		if entry := elem.Value.(*cacheEntry); entry.err != nil { //nolint:errcheck // list only contains *cacheEntry
			errs[text] = entry.err
		}
	}
	return errs
}

// Len returns the number of cached clauses.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

// evictOldest removes the least recently used entry.
// Must be called with lock held.
func (c *Cache) evictOldest() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*cacheEntry).text) //nolint:errcheck // list only contains *cacheEntry
}
