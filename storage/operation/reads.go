package operation

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/onyxchain/onyx/storage"
)

// retrieve looks up the value for the given key and decodes it into entity.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the key does not exist
func retrieve(r storage.Reader, key []byte, entity interface{}) (errToReturn error) {
	val, closer, err := r.Get(key)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			errToReturn = multierror.Append(errToReturn, cerr)
		}
	}()

	err = msgpack.Unmarshal(val, entity)
	if err != nil {
		return fmt.Errorf("could not decode entity: %w", err)
	}
	return nil
}

// exists checks whether the given key is present without decoding its value.
func exists(r storage.Reader, key []byte) (bool, error) {
	_, closer, err := r.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	_ = closer.Close()
	return true, nil
}

// iterateRange walks all keys with the given prefix whose trailing 8 bytes
// encode a number in [start, end], in ascending order. For each entry, create
// must return a fresh destination to decode the value into, and handle is
// called afterwards with the entry's numeric key. Returning false from handle
// stops the iteration early without error.
func iterateRange(
	r storage.Reader,
	code byte,
	start, end uint64,
	create func() interface{},
	handle func(key uint64) bool,
) (errToReturn error) {
	if start > end {
		return nil
	}

	// The iterator upper bound is exclusive, so bump the end key by one.
	lo := makePrefix(code, start)
	hi := makePrefix(code, end+1)
	if end+1 == 0 {
		// end is the maximal number; fall back to the next prefix code.
		hi = []byte{code + 1}
	}

	it, err := r.NewIter(lo, hi)
	if err != nil {
		return fmt.Errorf("could not create iterator: %w", err)
	}
	defer func() {
		if cerr := it.Close(); cerr != nil {
			errToReturn = multierror.Append(errToReturn, cerr)
		}
	}()

	for ok := it.First(); ok; ok = it.Next() {
		entity := create()
		err = msgpack.Unmarshal(it.Value(), entity)
		if err != nil {
			return fmt.Errorf("could not decode entity: %w", err)
		}
		if !handle(keyToUint64(it.Key())) {
			return nil
		}
	}
	return nil
}
