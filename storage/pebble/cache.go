package pebble

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/onyxchain/onyx/module"
	"github.com/onyxchain/onyx/module/metrics"
	"github.com/onyxchain/onyx/storage"
)

func withLimit(limit uint) func(*Cache) {
	return func(c *Cache) {
		c.limit = limit
	}
}

type retrieveFunc func(r storage.Reader, key interface{}) (interface{}, error)

func withRetrieve(retrieve retrieveFunc) func(*Cache) {
	return func(c *Cache) {
		c.retrieve = retrieve
	}
}

func withResource(resource string) func(*Cache) {
	return func(c *Cache) {
		c.resource = resource
	}
}

func noRetrieve(storage.Reader, interface{}) (interface{}, error) {
	return nil, fmt.Errorf("no retrieve function for cache get available")
}

// Cache is a read-through LRU in front of the store. It is only used for
// content-addressed (hence immutable) lookups, so entries shared between
// snapshots can never go stale.
type Cache struct {
	metrics  module.CacheMetrics
	limit    uint
	retrieve retrieveFunc
	resource string
	cache    *lru.Cache
}

func newCache(collector module.CacheMetrics, options ...func(*Cache)) *Cache {
	c := Cache{
		metrics:  collector,
		limit:    1000,
		retrieve: noRetrieve,
		resource: metrics.ResourceUndefined,
	}
	for _, option := range options {
		option(&c)
	}
	c.cache, _ = lru.New(int(c.limit))
	c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	return &c
}

// Get returns the cached resource for the key, falling back to the injected
// retrieve function against the given reader on a miss.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the key exists in neither cache nor store
func (c *Cache) Get(r storage.Reader, key interface{}) (interface{}, error) {

	resource, cached := c.cache.Get(key)
	if cached {
		c.metrics.CacheHit(c.resource)
		return resource, nil
	}

	resource, err := c.retrieve(r, key)
	if err != nil {
		c.metrics.CacheNotFound(c.resource)
		return nil, err
	}
	c.metrics.CacheMiss(c.resource)

	evicted := c.cache.Add(key, resource)
	if !evicted {
		c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	}

	return resource, nil
}

// Insert adds a resource to the cache without touching the store.
func (c *Cache) Insert(key interface{}, resource interface{}) {
	evicted := c.cache.Add(key, resource)
	if !evicted {
		c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	}
}
