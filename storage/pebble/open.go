package pebble

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/module"
	"github.com/onyxchain/onyx/module/metrics"
	"github.com/onyxchain/onyx/storage"
	"github.com/onyxchain/onyx/storage/operation"
)

const (
	// DefaultBlockCacheSize is the size of the pebble block cache.
	DefaultBlockCacheSize = 1 << 20

	// DefaultHeaderCacheLimit is the number of headers kept in the
	// read-through cache.
	DefaultHeaderCacheLimit = 4096
)

// Store owns the pebble database holding all flushed chain data and hands out
// transactionally consistent read snapshots of it.
type Store struct {
	log     zerolog.Logger
	db      *pebble.DB
	metrics module.CacheMetrics

	// headersByHash is shared across snapshots. It is keyed by block hash,
	// which is a content hash, so an entry can never differ between
	// snapshots. Existence is still snapshot-scoped: readers resolve the
	// hash through their own snapshot before consulting the cache.
	headersByHash *Cache
}

var _ storage.SnapshotFactory = (*Store)(nil)

type storeConfig struct {
	blockCacheSize   int64
	headerCacheLimit uint
	metricsCollector module.CacheMetrics
}

// Option configures a Store.
type Option func(*storeConfig)

// WithCacheMetrics sets the collector instrumenting the store's read caches.
func WithCacheMetrics(collector module.CacheMetrics) Option {
	return func(cfg *storeConfig) {
		cfg.metricsCollector = collector
	}
}

// WithHeaderCacheLimit overrides the header cache size.
func WithHeaderCacheLimit(limit uint) Option {
	return func(cfg *storeConfig) {
		cfg.headerCacheLimit = limit
	}
}

// Open opens (creating if necessary) the persistent store in the given
// directory.
func Open(log zerolog.Logger, dir string, options ...Option) (*Store, error) {
	cfg := storeConfig{
		blockCacheSize:   DefaultBlockCacheSize,
		headerCacheLimit: DefaultHeaderCacheLimit,
		metricsCollector: metrics.NewNoopCollector(),
	}
	for _, option := range options {
		option(&cfg)
	}

	cache := pebble.NewCache(cfg.blockCacheSize)
	defer cache.Unref()
	db, err := pebble.Open(dir, &pebble.Options{Cache: cache})
	if err != nil {
		return nil, fmt.Errorf("could not open chain store: %w", err)
	}

	log = log.With().Str("component", "chain_store").Str("dir", dir).Logger()
	log.Info().Msg("chain store opened")

	retrieveHeader := func(r storage.Reader, key interface{}) (interface{}, error) {
		hash := key.(onyx.Hash)
		var number uint64
		err := operation.LookupBlockNumber(r, hash, &number)
		if err != nil {
			return nil, err
		}
		var header onyx.Header
		err = operation.RetrieveHeader(r, number, &header)
		if err != nil {
			return nil, err
		}
		return &header, nil
	}

	s := &Store{
		log:     log,
		db:      db,
		metrics: cfg.metricsCollector,
		headersByHash: newCache(cfg.metricsCollector,
			withLimit(cfg.headerCacheLimit),
			withResource(metrics.ResourceHeader),
			withRetrieve(retrieveHeader)),
	}
	return s, nil
}

// OpenReadSnapshot returns a consistent read snapshot of all data flushed so
// far. The snapshot must be closed when done.
// Expected errors during normal operations:
//   - storage.ErrStoreUnavailable if the store has been closed
func (s *Store) OpenReadSnapshot() (storage.Snapshot, error) {
	snap, err := func() (snap *pebble.Snapshot, err error) {
		// pebble panics when snapshotting a closed database; surface it as
		// an availability error instead.
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, r)
			}
		}()
		return s.db.NewSnapshot(), nil
	}()
	if err != nil {
		return nil, err
	}
	return &snapshot{
		store:  s,
		snap:   snap,
		reader: dbReader{db: snap},
	}, nil
}

// Close closes the underlying database. Snapshots opened earlier must be
// closed first.
func (s *Store) Close() error {
	s.log.Info().Msg("closing chain store")
	err := s.db.Close()
	if err != nil && !errors.Is(err, pebble.ErrClosed) {
		return fmt.Errorf("could not close chain store: %w", err)
	}
	return nil
}
