package chainview

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
)

// HeaderByNumber returns the canonical header at the given block number.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block at that number
func (v *View) HeaderByNumber(number uint64) (*onyx.Header, error) {
	return v.HeaderByID(onyx.BlockIDFromNumber(number))
}

// HeaderByHash returns the header with the given block hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block with that hash
func (v *View) HeaderByHash(hash onyx.Hash) (*onyx.Header, error) {
	return v.HeaderByID(onyx.BlockIDFromHash(hash))
}

// HeaderByID returns the header identified by block number or hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no matching block
func (v *View) HeaderByID(id onyx.BlockID) (*onyx.Header, error) {
	return getByBlock(v, id,
		func(snap storage.Snapshot, id onyx.BlockID) (*onyx.Header, error) {
			if hash, byHash := id.ByHash(); byHash {
				return snap.HeaderByHash(hash)
			}
			number, _ := id.ByNumber()
			return snap.HeaderByNumber(number)
		},
		func(node *memchain.ChainNode) (*onyx.Header, error) {
			return node.Block().Block.Header, nil
		},
	)
}

// HeadersByRange returns the canonical headers in the given range, ascending
// by number, stopping early at the first number past the captured head.
func (v *View) HeadersByRange(r onyx.Range) ([]*onyx.Header, error) {
	return v.HeadersByRangeWhile(r, nil)
}

// HeadersByRangeWhile returns the canonical headers in the given range, in
// ascending order, stopping at the first header for which the predicate is
// false. The predicate is evaluated on the store side as well, so a false
// result short-circuits before any in-memory block is visited.
func (v *View) HeadersByRangeWhile(r onyx.Range, pred func(*onyx.Header) bool) ([]*onyx.Header, error) {
	return getByBlockRangeWhile(v, r,
		func(snap storage.Snapshot, start, end uint64, pred func(*onyx.Header) bool) ([]*onyx.Header, error) {
			return snap.HeadersByRange(start, end, pred)
		},
		func(node *memchain.ChainNode) (*onyx.Header, error) {
			return node.Block().Block.Header, nil
		},
		pred,
	)
}

// BlockNumberByHash returns the number of the block with the given hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block with that hash
func (v *View) BlockNumberByHash(hash onyx.Hash) (uint64, error) {
	if node := v.memNodeByHash(hash); node != nil {
		return node.Number(), nil
	}
	return v.store.BlockNumberByHash(hash)
}

// BlockHashByNumber returns the canonical block hash at the given number.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block at that number
func (v *View) BlockHashByNumber(number uint64) (onyx.Hash, error) {
	if node := v.memNodeByNumber(number); node != nil {
		return node.Hash(), nil
	}
	return v.store.BlockHashByNumber(number)
}

// BlockHashesByRange returns the canonical block hashes in the given range,
// ascending by number.
func (v *View) BlockHashesByRange(r onyx.Range) ([]onyx.Hash, error) {
	return getByBlockRangeWhile(v, r,
		func(snap storage.Snapshot, start, end uint64, pred func(onyx.Hash) bool) ([]onyx.Hash, error) {
			return snap.BlockHashesByRange(start, end, pred)
		},
		func(node *memchain.ChainNode) (onyx.Hash, error) {
			return node.Hash(), nil
		},
		nil,
	)
}
