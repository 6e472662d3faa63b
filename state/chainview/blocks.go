package chainview

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
)

// BlockSource restricts which side of the view FindBlockByHash consults.
type BlockSource int

const (
	// BlockSourceAny looks in the captured chain first, then the store.
	BlockSourceAny BlockSource = iota

	// BlockSourceFlushed consults the store snapshot exclusively.
	BlockSourceFlushed

	// BlockSourceInMemory consults the captured chain exclusively.
	BlockSourceInMemory
)

// BlockByNumber returns the canonical block at the given number.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block at that number
func (v *View) BlockByNumber(number uint64) (*onyx.Block, error) {
	return v.BlockByID(onyx.BlockIDFromNumber(number))
}

// BlockByHash returns the block with the given hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block with that hash
func (v *View) BlockByHash(hash onyx.Hash) (*onyx.Block, error) {
	return v.BlockByID(onyx.BlockIDFromHash(hash))
}

// BlockByID returns the block identified by number or hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no matching block
func (v *View) BlockByID(id onyx.BlockID) (*onyx.Block, error) {
	return getByBlock(v, id,
		func(snap storage.Snapshot, id onyx.BlockID) (*onyx.Block, error) {
			if hash, byHash := id.ByHash(); byHash {
				return snap.BlockByHash(hash)
			}
			number, _ := id.ByNumber()
			return snap.BlockByNumber(number)
		},
		func(node *memchain.ChainNode) (*onyx.Block, error) {
			return node.Block().Block, nil
		},
	)
}

// RecoveredBlockByNumber returns the block at the given number together with
// its recovered senders.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block at that number
func (v *View) RecoveredBlockByNumber(number uint64) (*onyx.RecoveredBlock, error) {
	return v.RecoveredBlockByID(onyx.BlockIDFromNumber(number))
}

// RecoveredBlockByHash is RecoveredBlockByNumber keyed by block hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block with that hash
func (v *View) RecoveredBlockByHash(hash onyx.Hash) (*onyx.RecoveredBlock, error) {
	return v.RecoveredBlockByID(onyx.BlockIDFromHash(hash))
}

// RecoveredBlockByID returns the block identified by number or hash together
// with its recovered senders.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no matching block
func (v *View) RecoveredBlockByID(id onyx.BlockID) (*onyx.RecoveredBlock, error) {
	return getByBlock(v, id,
		func(snap storage.Snapshot, id onyx.BlockID) (*onyx.RecoveredBlock, error) {
			if hash, byHash := id.ByHash(); byHash {
				return snap.RecoveredBlockByHash(hash)
			}
			number, _ := id.ByNumber()
			return snap.RecoveredBlockByNumber(number)
		},
		func(node *memchain.ChainNode) (*onyx.RecoveredBlock, error) {
			return node.Block(), nil
		},
	)
}

// BlocksByRange returns the canonical blocks in the given range, ascending by
// number, stopping early at the first number past the captured head.
func (v *View) BlocksByRange(r onyx.Range) ([]*onyx.Block, error) {
	return getByBlockRangeWhile(v, r,
		func(snap storage.Snapshot, start, end uint64, pred func(*onyx.Block) bool) ([]*onyx.Block, error) {
			return snap.BlocksByRange(start, end, pred)
		},
		func(node *memchain.ChainNode) (*onyx.Block, error) {
			return node.Block().Block, nil
		},
		nil,
	)
}

// RecoveredBlocksByRange is BlocksByRange with recovered senders.
func (v *View) RecoveredBlocksByRange(r onyx.Range) ([]*onyx.RecoveredBlock, error) {
	return getByBlockRangeWhile(v, r,
		func(snap storage.Snapshot, start, end uint64, pred func(*onyx.RecoveredBlock) bool) ([]*onyx.RecoveredBlock, error) {
			return snap.RecoveredBlocksByRange(start, end, pred)
		},
		func(node *memchain.ChainNode) (*onyx.RecoveredBlock, error) {
			return node.Block(), nil
		},
		nil,
	)
}

// FindBlockByHash returns the block with the given hash, restricted to the
// requested source. A miss is a nil block, not an error.
func (v *View) FindBlockByHash(hash onyx.Hash, source BlockSource) (*onyx.Block, error) {
	if source != BlockSourceFlushed {
		if node := v.memNodeByHash(hash); node != nil {
			return node.Block().Block, nil
		}
		if source == BlockSourceInMemory {
			return nil, nil
		}
	}
	block, err := v.store.BlockByHash(hash)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

// BodyIndices returns the transaction-number indices of the given block.
//
// Indices are only persisted for flushed blocks; for a captured in-memory
// block they are composed from the anchor's indices and a forward sum of the
// transaction counts of the older in-memory blocks.
//
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block at that number
func (v *View) BodyIndices(number uint64) (*onyx.BlockBodyIndices, error) {
	node := v.memNodeByNumber(number)
	if node == nil {
		return v.store.BodyIndices(number)
	}

	pivot, _, err := v.memoryTxPivot()
	if err != nil {
		return nil, err
	}
	firstTxNum := pivot
	for _, older := range v.memChainAscending() {
		if older.Number() >= number {
			break
		}
		firstTxNum += older.Block().Block.TxCount()
	}
	return &onyx.BlockBodyIndices{
		FirstTxNum: firstTxNum,
		TxCount:    node.Block().Block.TxCount(),
	}, nil
}
