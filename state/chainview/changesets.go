package chainview

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
)

// AccountChanges returns the account changeset of the given block: the state
// of every account the block touched, as it was immediately before the block.
// An empty slice means the block touched no accounts.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block at that number
//   - storage.ErrStateAtBlockPruned if account history at that block was
//     pruned from the store
func (v *View) AccountChanges(number uint64) ([]onyx.AccountChange, error) {
	return getByBlock(v, onyx.BlockIDFromNumber(number),
		func(snap storage.Snapshot, id onyx.BlockID) ([]onyx.AccountChange, error) {
			number, _ := id.ByNumber()
			err := checkPruned(snap, storage.PruneSegmentAccountHistory, number)
			if err != nil {
				return nil, err
			}
			return snap.AccountChanges(number)
		},
		func(node *memchain.ChainNode) ([]onyx.AccountChange, error) {
			return node.Diff().AccountChanges, nil
		},
	)
}

// StorageChanges returns the storage changeset of the given block: the value
// of every slot the block touched, as it was immediately before the block.
// An empty slice means the block touched no storage.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block at that number
//   - storage.ErrStateAtBlockPruned if storage history at that block was
//     pruned from the store
func (v *View) StorageChanges(number uint64) ([]onyx.StorageChange, error) {
	return getByBlock(v, onyx.BlockIDFromNumber(number),
		func(snap storage.Snapshot, id onyx.BlockID) ([]onyx.StorageChange, error) {
			number, _ := id.ByNumber()
			err := checkPruned(snap, storage.PruneSegmentStorageHistory, number)
			if err != nil {
				return nil, err
			}
			return snap.StorageChanges(number)
		},
		func(node *memchain.ChainNode) ([]onyx.StorageChange, error) {
			return node.Diff().StorageChanges, nil
		},
	)
}

// checkPruned rejects changeset reads at or below the prune checkpoint of the
// given history segment. An empty result there would be indistinguishable
// from "the block changed nothing", so the absence must surface as an error.
func checkPruned(snap storage.Snapshot, segment storage.PruneSegment, number uint64) error {
	checkpoint, pruned, err := snap.PruneCheckpoint(segment)
	if err != nil {
		return err
	}
	if pruned && number <= checkpoint {
		return storage.NewStateAtBlockPrunedError(number)
	}
	return nil
}
