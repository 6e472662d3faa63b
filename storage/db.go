package storage

import "io"

// Reader is the minimal key-value read surface the operation package builds
// on. Both a live database and a point-in-time snapshot satisfy it.
type Reader interface {
	// Get returns the value for the given key. The returned closer must be
	// closed after the value has been consumed; the value is only valid
	// until then.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the key does not exist
	Get(key []byte) (value []byte, closer io.Closer, err error)

	// NewIter returns an iterator over the keys in [start, end) in ascending
	// byte order.
	NewIter(start, end []byte) (Iterator, error)
}

// Iterator walks a key range in ascending byte order. It must be closed when
// done.
type Iterator interface {
	First() bool
	Valid() bool
	Next() bool
	Key() []byte
	Value() []byte
	Close() error
}

// Writer is the minimal key-value write surface the operation package builds
// on. Writes issued through one Writer become visible atomically.
type Writer interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}
