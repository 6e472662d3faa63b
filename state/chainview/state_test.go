package chainview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/chainview"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
	pebblestorage "github.com/onyxchain/onyx/storage/pebble"
	"github.com/onyxchain/onyx/utils/unittest"
)

func TestStateViewAt(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		// In-memory block: store plain state overlaid with memory diffs.
		view, err := v.StateViewAt(7)
		require.NoError(t, err)
		for _, addr := range h.pool {
			account, err := view.Account(addr)
			require.NoError(t, err)
			assert.Equal(t, h.states[7][addr], account)
		}

		// The slot values visible at block 6 are the prior values recorded by
		// block 7's storage changeset.
		view6, err := v.StateViewAt(6)
		require.NoError(t, err)
		for _, change := range h.diffs[7].StorageChanges {
			value, err := view6.StorageSlot(change.Address, change.Key)
			require.NoError(t, err)
			assert.Equal(t, change.Prev, value)
		}

		// Flushed block: served by the store's changeset rewind.
		view2, err := v.StateViewAt(2)
		require.NoError(t, err)
		for _, addr := range h.pool {
			account, err := view2.Account(addr)
			require.NoError(t, err)
			assert.Equal(t, h.states[2][addr], account)
		}

		// The latest view matches the builder's final state.
		latest, err := v.StateView()
		require.NoError(t, err)
		for _, addr := range h.pool {
			account, err := latest.Account(addr)
			require.NoError(t, err)
			assert.Equal(t, h.states[9][addr], account)
		}

		_, err = v.StateViewAt(10)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestStateByRange(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		outcome, err := v.StateByRange(onyx.NewRange(2, 7))
		require.NoError(t, err)
		require.NotNil(t, outcome)

		assert.Equal(t, uint64(2), outcome.FirstBlock)
		assert.Equal(t, 6, outcome.BlockCount())
		for i := 0; i < 6; i++ {
			assert.Equal(t, h.receipts[2+i], outcome.Receipts[i])
		}

		// Every pool account is touched by every block, so each delta spans
		// the whole range: before block 2 to after block 7.
		for _, addr := range h.pool {
			delta, ok := outcome.State[addr]
			require.True(t, ok, "missing delta for %x", addr)
			assert.Equal(t, h.states[1][addr], delta.Prev)
			assert.Equal(t, h.states[7][addr], delta.Curr)
		}

		// Reverts record exactly the per-block changesets.
		for _, change := range h.diffs[5].AccountChanges {
			revert := outcome.RevertsFor(5)[change.Address]
			require.NotNil(t, revert)
			require.True(t, revert.PrevSet)
			assert.Equal(t, change.Prev, revert.Prev)
		}
		for _, change := range h.diffs[5].StorageChanges {
			revert := outcome.RevertsFor(5)[change.Address]
			require.NotNil(t, revert)
			assert.Contains(t, revert.Storage, onyx.StorageEntry{Key: change.Key, Value: change.Prev})
		}
	})
}

func TestStateByRangeFromGenesis(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		outcome, err := v.StateByRange(onyx.NewRange(0, 9))
		require.NoError(t, err)
		require.NotNil(t, outcome)

		// Before genesis no account existed.
		for _, addr := range h.pool {
			delta, ok := outcome.State[addr]
			require.True(t, ok)
			assert.Nil(t, delta.Prev)
			assert.Equal(t, h.states[9][addr], delta.Curr)
		}
	})
}

// A block can move an account's storage without touching the account itself.
// The reconstructed delta must then report the account as unchanged across the
// range, not as freshly created.
func TestStateByRangeStorageOnlyTouch(t *testing.T) {
	unittest.RunWithStore(t, func(store *pebblestorage.Store) {
		addr := unittest.AddressFixture()
		key := unittest.HashFixture()
		account := unittest.AccountFixture()
		createdValue := unittest.HashFixture()
		updatedValue := unittest.HashFixture()

		genesis := &onyx.RecoveredBlock{Block: &onyx.Block{Header: unittest.HeaderFixture(0, onyx.ZeroHash)}}
		genesisDiff := &onyx.StateDiff{
			AccountChanges: []onyx.AccountChange{{Address: addr, Prev: nil}},
			StorageChanges: []onyx.StorageChange{{Address: addr, Key: key, Prev: onyx.ZeroHash}},
			PostAccounts:   map[onyx.Address]*onyx.Account{addr: account},
			PostStorage:    map[onyx.Address]map[onyx.Hash]onyx.Hash{addr: {key: createdValue}},
		}
		next := &onyx.RecoveredBlock{Block: &onyx.Block{Header: unittest.HeaderFixture(1, genesis.ID())}}
		nextDiff := &onyx.StateDiff{
			StorageChanges: []onyx.StorageChange{{Address: addr, Key: key, Prev: createdValue}},
			PostStorage:    map[onyx.Address]map[onyx.Hash]onyx.Hash{addr: {key: updatedValue}},
		}
		require.NoError(t, store.AppendBlocks(
			[]*onyx.RecoveredBlock{genesis, next},
			[][]*onyx.Receipt{nil, nil},
			[]*onyx.StateDiff{genesisDiff, nextDiff},
		))

		v, err := chainview.New(unittest.Logger(), store, memchain.NewSegment())
		require.NoError(t, err)
		defer v.Close()

		outcome, err := v.StateByRange(onyx.NewRange(1, 1))
		require.NoError(t, err)
		require.NotNil(t, outcome)

		delta, ok := outcome.State[addr]
		require.True(t, ok)
		require.NotNil(t, delta.Prev)
		assert.Equal(t, account, delta.Prev)
		assert.Equal(t, account, delta.Curr)
		assert.Equal(t, onyx.SlotDelta{Prev: createdValue, Curr: updatedValue}, delta.Storage[key])

		revert := outcome.RevertsFor(1)[addr]
		require.NotNil(t, revert)
		assert.False(t, revert.PrevSet)
		assert.Equal(t, []onyx.StorageEntry{{Key: key, Value: createdValue}}, revert.Storage)
	})
}

func TestStateByRangeEdgeCases(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		// Empty range yields no outcome, not an error.
		outcome, err := v.StateByRange(onyx.NewRange(5, 4))
		require.NoError(t, err)
		assert.Nil(t, outcome)

		// Unresolvable body indices are fatal to the call.
		_, err = v.StateByRange(onyx.NewRange(8, 12))
		require.ErrorIs(t, err, storage.ErrBodyIndicesNotFound)
	})
}

func TestStateByRangePruned(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		require.NoError(t, h.store.PruneHistory(storage.PruneSegmentStorageHistory, 2))

		v := h.view()
		defer v.Close()

		_, err := v.StateByRange(onyx.NewRange(1, 3))
		require.ErrorIs(t, err, storage.ErrStateAtBlockPruned)

		// Ranges above the checkpoint are unaffected.
		outcome, err := v.StateByRange(onyx.NewRange(3, 6))
		require.NoError(t, err)
		require.NotNil(t, outcome)
	})
}

func TestStateByBlock(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		// A memory block's outcome comes from the node's own diff and must
		// agree with the range reconstructor.
		direct, err := v.StateByBlock(6)
		require.NoError(t, err)
		viaRange, err := v.StateByRange(onyx.NewRange(6, 6))
		require.NoError(t, err)
		assert.Equal(t, viaRange.State, direct.State)
		assert.Equal(t, viaRange.Reverts, direct.Reverts)
		assert.Equal(t, viaRange.Receipts, direct.Receipts)

		// A flushed block goes through the range path.
		outcome, err := v.StateByBlock(3)
		require.NoError(t, err)
		require.NotNil(t, outcome)
		assert.Equal(t, uint64(3), outcome.FirstBlock)
		assert.Equal(t, h.receipts[3], outcome.Receipts[0])
		for _, change := range h.diffs[3].AccountChanges {
			delta, ok := outcome.State[change.Address]
			require.True(t, ok)
			assert.Equal(t, change.Prev, delta.Prev)
			assert.Equal(t, h.states[3][change.Address], delta.Curr)
		}
	})
}
