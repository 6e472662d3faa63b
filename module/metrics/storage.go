package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespaceStorage = "onyx_storage"
	subsystemCache   = "cache"
)

// StorageCollector exposes storage-layer cache metrics via prometheus.
type StorageCollector struct {
	cacheEntries  *prometheus.GaugeVec
	cacheHits     *prometheus.CounterVec
	cacheNotFound *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
}

func NewStorageCollector() *StorageCollector {
	sc := &StorageCollector{
		cacheEntries: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:      "entries_total",
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Help:      "the number of entries in the cache",
		}, []string{LabelResource}),
		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "hits_total",
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Help:      "the number of times the queried item was found in the cache",
		}, []string{LabelResource}),
		cacheNotFound: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "not_found_total",
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Help:      "the number of times the queried item was not found in the cache or the store",
		}, []string{LabelResource}),
		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:      "misses_total",
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Help:      "the number of times the queried item was not cached but found in the store",
		}, []string{LabelResource}),
	}
	return sc
}

func (sc *StorageCollector) CacheEntries(resource string, entries uint) {
	sc.cacheEntries.With(prometheus.Labels{LabelResource: resource}).Set(float64(entries))
}

func (sc *StorageCollector) CacheHit(resource string) {
	sc.cacheHits.With(prometheus.Labels{LabelResource: resource}).Inc()
}

func (sc *StorageCollector) CacheNotFound(resource string) {
	sc.cacheNotFound.With(prometheus.Labels{LabelResource: resource}).Inc()
}

func (sc *StorageCollector) CacheMiss(resource string) {
	sc.cacheMisses.With(prometheus.Labels{LabelResource: resource}).Inc()
}
