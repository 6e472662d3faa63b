package module

// CacheMetrics instruments the read caches of the storage layer.
type CacheMetrics interface {
	// CacheEntries reports the total number of cached items.
	CacheEntries(resource string, entries uint)
	// CacheHit reports that a queried item was found in the cache.
	CacheHit(resource string)
	// CacheNotFound reports that a queried item was found in neither the
	// cache nor the underlying store.
	CacheNotFound(resource string)
	// CacheMiss reports that a queried item was not cached but was found in
	// the underlying store.
	CacheMiss(resource string)
}
