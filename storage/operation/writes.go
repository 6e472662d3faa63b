package operation

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v4"

	"github.com/onyxchain/onyx/storage"
)

// upsert encodes the entity and writes it under the given key, overwriting
// any existing value.
func upsert(w storage.Writer, key []byte, entity interface{}) error {
	val, err := msgpack.Marshal(entity)
	if err != nil {
		return fmt.Errorf("could not encode entity: %w", err)
	}
	err = w.Set(key, val)
	if err != nil {
		return fmt.Errorf("could not store entity: %w", err)
	}
	return nil
}

// remove deletes the value under the given key, if any.
func remove(w storage.Writer, key []byte) error {
	return w.Delete(key)
}
