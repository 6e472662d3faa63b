package pebble

import (
	"errors"
	"fmt"
	"sync"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
	"github.com/onyxchain/onyx/storage/operation"
)

// StateView returns the plain state as of the last flushed block.
func (s *snapshot) StateView() storage.StateView {
	return &plainStateView{reader: s.reader}
}

// StateViewAt returns the state as of the given flushed block, rewinding the
// plain state through the changesets of every later block.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the block is not flushed
//   - storage.ErrStateAtBlockPruned if history up to the block was pruned
func (s *snapshot) StateViewAt(number uint64) (storage.StateView, error) {
	last, err := s.LastBlockNumber()
	if err != nil {
		return nil, err
	}
	if number > last {
		return nil, storage.ErrNotFound
	}
	if number == last {
		return &plainStateView{reader: s.reader}, nil
	}

	// Rewinding past a pruned changeset would silently produce wrong state.
	for _, segment := range []storage.PruneSegment{
		storage.PruneSegmentAccountHistory,
		storage.PruneSegmentStorageHistory,
	} {
		checkpoint, pruned, err := s.PruneCheckpoint(segment)
		if err != nil {
			return nil, err
		}
		if pruned && number <= checkpoint {
			return nil, storage.NewStateAtBlockPrunedError(number)
		}
	}

	return &rewindStateView{snap: s, number: number, last: last}, nil
}

// plainStateView reads the latest flushed state directly.
type plainStateView struct {
	reader storage.Reader
}

var _ storage.StateView = (*plainStateView)(nil)

func (v *plainStateView) Account(address onyx.Address) (*onyx.Account, error) {
	return operation.RetrieveAccount(v.reader, address)
}

func (v *plainStateView) StorageSlot(address onyx.Address, key onyx.Hash) (onyx.Hash, error) {
	return operation.RetrieveStorageSlot(v.reader, address, key)
}

// rewindStateView serves the state as of block `number` by overlaying the
// pre-images recorded in the changesets of blocks number+1..last on top of
// the plain state. A changeset at block B records each value as it was
// before B executed, so walking the blocks in ascending order and keeping
// the first touch per key yields the value as of `number`.
type rewindStateView struct {
	snap   *snapshot
	number uint64
	last   uint64

	once     sync.Once
	loadErr  error
	accounts map[onyx.Address]*onyx.Account
	slots    map[onyx.Address]map[onyx.Hash]onyx.Hash
}

var _ storage.StateView = (*rewindStateView)(nil)

func (v *rewindStateView) load() {
	v.accounts = make(map[onyx.Address]*onyx.Account)
	v.slots = make(map[onyx.Address]map[onyx.Hash]onyx.Hash)

	for block := v.number + 1; block <= v.last; block++ {
		accountChanges, err := v.snap.AccountChanges(block)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			v.loadErr = fmt.Errorf("could not load account changes for block %d: %w", block, err)
			return
		}
		for _, change := range accountChanges {
			if _, seen := v.accounts[change.Address]; !seen {
				v.accounts[change.Address] = change.Prev
			}
		}

		storageChanges, err := v.snap.StorageChanges(block)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			v.loadErr = fmt.Errorf("could not load storage changes for block %d: %w", block, err)
			return
		}
		for _, change := range storageChanges {
			slots, ok := v.slots[change.Address]
			if !ok {
				slots = make(map[onyx.Hash]onyx.Hash)
				v.slots[change.Address] = slots
			}
			if _, seen := slots[change.Key]; !seen {
				slots[change.Key] = change.Prev
			}
		}
	}
}

func (v *rewindStateView) Account(address onyx.Address) (*onyx.Account, error) {
	v.once.Do(v.load)
	if v.loadErr != nil {
		return nil, v.loadErr
	}
	if account, touched := v.accounts[address]; touched {
		return account, nil
	}
	return operation.RetrieveAccount(v.snap.reader, address)
}

func (v *rewindStateView) StorageSlot(address onyx.Address, key onyx.Hash) (onyx.Hash, error) {
	v.once.Do(v.load)
	if v.loadErr != nil {
		return onyx.ZeroHash, v.loadErr
	}
	if slots, ok := v.slots[address]; ok {
		if value, touched := slots[key]; touched {
			return value, nil
		}
	}
	// An account destroyed after `number` had all of its slots recorded in
	// the account-destruction changeset; anything not touched reads through.
	return operation.RetrieveStorageSlot(v.snap.reader, address, key)
}
