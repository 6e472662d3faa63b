package pebble

import (
	"errors"
	"io"

	"github.com/cockroachdb/pebble"

	"github.com/onyxchain/onyx/storage"
)

// pebbleGetter is the read surface shared by *pebble.DB and *pebble.Snapshot.
type pebbleGetter interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

// dbReader adapts a pebble read surface to storage.Reader.
type dbReader struct {
	db pebbleGetter
}

var _ storage.Reader = (*dbReader)(nil)

func (r dbReader) Get(key []byte) ([]byte, io.Closer, error) {
	val, closer, err := r.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil, storage.ErrNotFound
		}
		return nil, nil, err
	}
	return val, closer, nil
}

func (r dbReader) NewIter(start, end []byte) (storage.Iterator, error) {
	it, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, err
	}
	return dbIterator{it: it}, nil
}

// dbIterator adapts a pebble iterator to storage.Iterator.
type dbIterator struct {
	it *pebble.Iterator
}

var _ storage.Iterator = (*dbIterator)(nil)

func (i dbIterator) First() bool   { return i.it.First() }
func (i dbIterator) Valid() bool   { return i.it.Valid() }
func (i dbIterator) Next() bool    { return i.it.Next() }
func (i dbIterator) Key() []byte   { return i.it.Key() }
func (i dbIterator) Value() []byte { return i.it.Value() }
func (i dbIterator) Close() error  { return i.it.Close() }

// batchWriter adapts a pebble batch to storage.Writer.
type batchWriter struct {
	batch *pebble.Batch
}

var _ storage.Writer = (*batchWriter)(nil)

func (w batchWriter) Set(key, value []byte) error {
	return w.batch.Set(key, value, pebble.Sync)
}

func (w batchWriter) Delete(key []byte) error {
	return w.batch.Delete(key, pebble.Sync)
}
