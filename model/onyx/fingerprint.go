package onyx

import (
	"crypto/sha256"
	"fmt"

	"github.com/vmihailenco/msgpack/v4"
)

// makeID hashes the canonical encoding of the given value into a content hash.
// All entity IDs in the model funnel through this function so that two entities
// with equal hashed fields always produce the same ID.
func makeID(entity interface{}) Hash {
	data, err := msgpack.Marshal(entity)
	if err != nil {
		// The model types are all plain data; an encoding failure means the
		// type itself is broken, which cannot be handled at runtime.
		panic(fmt.Sprintf("could not encode entity for hashing: %v", err))
	}
	return sha256.Sum256(data)
}
