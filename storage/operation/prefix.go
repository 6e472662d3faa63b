package operation

import (
	"encoding/binary"

	"github.com/onyxchain/onyx/model/onyx"
)

// Key prefixes for the persistent store. Numeric key components are encoded
// big-endian so that lexicographic iteration order equals numeric order.
const (
	codeHeaderByNumber    = 1  // block number -> header
	codeNumberByBlockHash = 2  // block hash -> block number
	codeBodyIndices       = 3  // block number -> body indices
	codeTransaction       = 4  // tx number -> transaction
	codeTxNumberByHash    = 5  // tx hash -> tx number
	codeSender            = 6  // tx number -> sender address
	codeReceipt           = 7  // tx number -> receipt
	codeAccountChanges    = 8  // block number -> account changeset
	codeStorageChanges    = 9  // block number -> storage changeset
	codePlainAccount      = 10 // address -> account
	codePlainStorage      = 11 // address + slot key -> slot value
	codePruneCheckpoint   = 12 // prune segment -> block number
	codeLastBlockNumber   = 13 // -> block number
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := []byte{code}
	for _, key := range keys {
		prefix = append(prefix, keyPart(key)...)
	}
	return prefix
}

func keyPart(v interface{}) []byte {
	switch i := v.(type) {
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case uint8:
		return []byte{i}
	case onyx.Hash:
		return i[:]
	case onyx.Address:
		return i[:]
	default:
		panic("unsupported key part type")
	}
}

// keyToUint64 decodes the trailing 8 bytes of a key as a big-endian number.
func keyToUint64(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(key)-8:])
}
