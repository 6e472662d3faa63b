package chainview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/chainview"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
	"github.com/onyxchain/onyx/utils/unittest"
)

// The boundary fixture used throughout: blocks 0-4 flushed, blocks 5-9 in
// memory, 4 transactions each.

func TestBoundaryBodyIndices(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		// First in-memory block: anchor indices plus nothing.
		indices, err := v.BodyIndices(5)
		require.NoError(t, err)
		assert.Equal(t, onyx.BlockBodyIndices{FirstTxNum: 20, TxCount: 4}, *indices)

		// Flushed block, straight from the store.
		indices, err = v.BodyIndices(2)
		require.NoError(t, err)
		assert.Equal(t, onyx.BlockBodyIndices{FirstTxNum: 8, TxCount: 4}, *indices)

		// Deep in memory: anchor indices plus the forward sum.
		indices, err = v.BodyIndices(9)
		require.NoError(t, err)
		assert.Equal(t, onyx.BlockBodyIndices{FirstTxNum: 36, TxCount: 4}, *indices)
	})
}

func TestBlockRangeConcatenation(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		blocks, err := v.BlocksByRange(onyx.NewRange(0, 9))
		require.NoError(t, err)
		require.Len(t, blocks, 10)
		assert.Equal(t, chainIDs(h.blocks), blockIDs(blocks))

		// A sub-range straddling the boundary.
		blocks, err = v.BlocksByRange(onyx.NewRange(3, 7))
		require.NoError(t, err)
		require.Len(t, blocks, 5)
		assert.Equal(t, chainIDs(h.blocks[3:8]), blockIDs(blocks))

		// An open range binds to the captured head.
		recovered, err := v.RecoveredBlocksByRange(onyx.OpenRange(6))
		require.NoError(t, err)
		require.Len(t, recovered, 4)
		assert.Equal(t, h.blocks[6].Senders, recovered[0].Senders)

		hashes, err := v.BlockHashesByRange(onyx.NewRange(4, 6))
		require.NoError(t, err)
		assert.Equal(t, []onyx.Hash{h.blocks[4].ID(), h.blocks[5].ID(), h.blocks[6].ID()}, hashes)
	})
}

func TestHeadersWhileShortCircuit(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		// Predicate stops inside the memory phase.
		headers, err := v.HeadersByRangeWhile(onyx.NewRange(0, 10), func(header *onyx.Header) bool {
			return header.Number <= 8
		})
		require.NoError(t, err)
		require.Len(t, headers, 9)
		assert.Equal(t, uint64(0), headers[0].Number)
		assert.Equal(t, uint64(8), headers[8].Number)

		// Predicate stops inside the store phase; memory is never visited.
		headers, err = v.HeadersByRangeWhile(onyx.NewRange(0, 9), func(header *onyx.Header) bool {
			return header.Number <= 2
		})
		require.NoError(t, err)
		require.Len(t, headers, 3)
		assert.Equal(t, uint64(2), headers[2].Number)
	})
}

func TestRangeIdempotence(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		first, err := v.BlocksByRange(onyx.NewRange(2, 8))
		require.NoError(t, err)
		second, err := v.BlocksByRange(onyx.NewRange(2, 8))
		require.NoError(t, err)
		assert.Equal(t, blockIDs(first), blockIDs(second))

		firstTxs, err := v.TransactionsByTxRange(onyx.NewRange(10, 30))
		require.NoError(t, err)
		secondTxs, err := v.TransactionsByTxRange(onyx.NewRange(10, 30))
		require.NoError(t, err)
		assert.Equal(t, txIDs(firstTxs), txIDs(secondTxs))
	})
}

func TestTxRangeStraddlesBoundary(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()
		ref := h.allTxs()

		// Straddling the pivot at tx number 20.
		txs, err := v.TransactionsByTxRange(onyx.NewRange(15, 27))
		require.NoError(t, err)
		assert.Equal(t, txIDs(ref[15:28]), txIDs(txs))

		// Entirely below and entirely above the pivot.
		txs, err = v.TransactionsByTxRange(onyx.NewRange(0, 19))
		require.NoError(t, err)
		assert.Equal(t, txIDs(ref[:20]), txIDs(txs))

		txs, err = v.TransactionsByTxRange(onyx.NewRange(20, 39))
		require.NoError(t, err)
		assert.Equal(t, txIDs(ref[20:]), txIDs(txs))

		// Open range covers the whole space.
		txs, err = v.TransactionsByTxRange(onyx.OpenRange(0))
		require.NoError(t, err)
		assert.Equal(t, txIDs(ref), txIDs(txs))

		// Windows inside a single memory block.
		txs, err = v.TransactionsByTxRange(onyx.NewRange(25, 26))
		require.NoError(t, err)
		assert.Equal(t, txIDs(ref[25:27]), txIDs(txs))
	})
}

func TestSendersAndReceiptsByTxRange(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		senders, err := v.SendersByTxRange(onyx.NewRange(18, 22))
		require.NoError(t, err)
		want := append(append([]onyx.Address{}, h.blocks[4].Senders[2:]...), h.blocks[5].Senders[:3]...)
		assert.Equal(t, want, senders)

		receipts, err := v.ReceiptsByTxRange(onyx.NewRange(18, 22))
		require.NoError(t, err)
		require.Len(t, receipts, 5)
		assert.Equal(t, h.receipts[4][2], receipts[0])
		assert.Equal(t, h.receipts[5][2], receipts[4])
	})
}

func TestPointLookups(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		// Headers and blocks on both sides of the boundary.
		header, err := v.HeaderByNumber(7)
		require.NoError(t, err)
		assert.Equal(t, h.blocks[7].ID(), header.ID())

		header, err = v.HeaderByHash(h.blocks[1].ID())
		require.NoError(t, err)
		assert.Equal(t, uint64(1), header.Number)

		number, err := v.BlockNumberByHash(h.blocks[8].ID())
		require.NoError(t, err)
		assert.Equal(t, uint64(8), number)

		hash, err := v.BlockHashByNumber(3)
		require.NoError(t, err)
		assert.Equal(t, h.blocks[3].ID(), hash)

		// Transactions by number, hash, and meta.
		tx, err := v.TransactionByNumber(22)
		require.NoError(t, err)
		assert.Equal(t, h.blocks[5].Block.Transactions[2].ID(), tx.ID())

		blockNum, err := v.TransactionBlock(22)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), blockNum)

		blockNum, err = v.TransactionBlock(9)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), blockNum)

		storeTx := h.blocks[3].Block.Transactions[1]
		tx, meta, err := v.TransactionByHashWithMeta(storeTx.ID())
		require.NoError(t, err)
		assert.Equal(t, storeTx.ID(), tx.ID())
		assert.Equal(t, &onyx.TransactionMeta{
			BlockHash:   h.blocks[3].ID(),
			BlockNumber: 3,
			Index:       1,
			TxNum:       13,
		}, meta)

		memTx := h.blocks[8].Block.Transactions[0]
		tx, meta, err = v.TransactionByHashWithMeta(memTx.ID())
		require.NoError(t, err)
		assert.Equal(t, memTx.ID(), tx.ID())
		assert.Equal(t, &onyx.TransactionMeta{
			BlockHash:   h.blocks[8].ID(),
			BlockNumber: 8,
			Index:       0,
			TxNum:       32,
		}, meta)

		txNum, err := v.TransactionID(memTx.ID())
		require.NoError(t, err)
		assert.Equal(t, uint64(32), txNum)

		receipt, err := v.ReceiptByTxHash(memTx.ID())
		require.NoError(t, err)
		assert.Equal(t, h.receipts[8][0], receipt)

		receipt, err = v.ReceiptByTxNumber(13)
		require.NoError(t, err)
		assert.Equal(t, h.receipts[3][1], receipt)

		txs, err := v.TransactionsByBlock(onyx.BlockIDFromNumber(6))
		require.NoError(t, err)
		assert.Equal(t, txIDs(h.blocks[6].Block.Transactions), txIDs(txs))

		receipts, err := v.ReceiptsByBlock(onyx.BlockIDFromHash(h.blocks[2].ID()))
		require.NoError(t, err)
		assert.Equal(t, h.receipts[2], receipts)
	})
}

func TestFindBlockByHash(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		block, err := v.FindBlockByHash(h.blocks[7].ID(), chainview.BlockSourceAny)
		require.NoError(t, err)
		require.NotNil(t, block)
		assert.Equal(t, uint64(7), block.Number())

		// Flushed-only must not see in-memory blocks.
		block, err = v.FindBlockByHash(h.blocks[7].ID(), chainview.BlockSourceFlushed)
		require.NoError(t, err)
		assert.Nil(t, block)

		block, err = v.FindBlockByHash(h.blocks[2].ID(), chainview.BlockSourceInMemory)
		require.NoError(t, err)
		assert.Nil(t, block)

		block, err = v.FindBlockByHash(unittest.HashFixture(), chainview.BlockSourceAny)
		require.NoError(t, err)
		assert.Nil(t, block)
	})
}

// A block flushed and evicted after the view captured its head must stay
// visible through the captured chain.
func TestFlushRace(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		// Flush the whole in-memory tail and evict it from the live segment,
		// simulating the persistence process overtaking the open view.
		require.NoError(t, h.store.AppendBlocks(h.blocks[5:], h.receipts[5:], h.diffs[5:]))
		h.segment.RemovePersisted(9)
		require.Nil(t, h.segment.Head())

		racedTx := h.blocks[7].Block.Transactions[2]
		tx, err := v.TransactionByHash(racedTx.ID())
		require.NoError(t, err)
		assert.Equal(t, racedTx.ID(), tx.ID())

		// Range queries on the captured view still return the full chain.
		blocks, err := v.BlocksByRange(onyx.NewRange(0, 9))
		require.NoError(t, err)
		assert.Equal(t, chainIDs(h.blocks), blockIDs(blocks))

		// A fresh view now serves everything from the store.
		fresh := h.view()
		defer fresh.Close()
		tx, err = fresh.TransactionByHash(racedTx.ID())
		require.NoError(t, err)
		assert.Equal(t, racedTx.ID(), tx.ID())
	})
}

func TestPrunedChangesets(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		require.NoError(t, h.store.PruneHistory(storage.PruneSegmentAccountHistory, 3))
		require.NoError(t, h.store.PruneHistory(storage.PruneSegmentStorageHistory, 2))

		v := h.view()
		defer v.Close()

		_, err := v.AccountChanges(2)
		require.ErrorIs(t, err, storage.ErrStateAtBlockPruned)
		_, err = v.AccountChanges(3)
		require.ErrorIs(t, err, storage.ErrStateAtBlockPruned)

		changes, err := v.AccountChanges(4)
		require.NoError(t, err)
		assert.Equal(t, h.diffs[4].AccountChanges, changes)

		_, err = v.StorageChanges(1)
		require.ErrorIs(t, err, storage.ErrStateAtBlockPruned)
		storageChanges, err := v.StorageChanges(3)
		require.NoError(t, err)
		assert.Equal(t, h.diffs[3].StorageChanges, storageChanges)

		// In-memory changesets are never affected by store pruning.
		changes, err = v.AccountChanges(6)
		require.NoError(t, err)
		assert.Equal(t, h.diffs[6].AccountChanges, changes)
	})
}

func TestAnchorConsistency(t *testing.T) {
	withChain(t, 5, 0, 4, func(h *harness) {

		// A segment anchored at a block the store does not have.
		stranger := unittest.NewChainBuilder()
		blocks, receipts, diffs := stranger.Blocks(8, 2)
		segment := memchain.NewSegment()
		require.NoError(t, segment.Append(blocks[7], receipts[7], diffs[7]))

		_, err := chainview.New(unittest.Logger(), h.store, segment)
		require.ErrorIs(t, err, storage.ErrInconsistentChain)

		// A segment whose anchor number exists but whose hash disagrees.
		segment = memchain.NewSegment()
		require.NoError(t, segment.Append(blocks[4], receipts[4], diffs[4]))
		_, err = chainview.New(unittest.Logger(), h.store, segment)
		require.ErrorIs(t, err, storage.ErrInconsistentChain)
	})
}

func TestChainInfo(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		info, err := v.ChainInfo()
		require.NoError(t, err)
		assert.Equal(t, onyx.ChainInfo{BestHash: h.blocks[9].ID(), BestNumber: 9}, info)

		best, err := v.BestBlockNumber()
		require.NoError(t, err)
		assert.Equal(t, uint64(9), best)

		flushed, err := v.LastFlushedBlockNumber()
		require.NoError(t, err)
		assert.Equal(t, uint64(4), flushed)
	})

	// Store-only chain.
	withChain(t, 5, 0, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		info, err := v.ChainInfo()
		require.NoError(t, err)
		assert.Equal(t, onyx.ChainInfo{BestHash: h.blocks[4].ID(), BestNumber: 4}, info)
	})
}

func TestMemoryOnlyChain(t *testing.T) {
	withChain(t, 0, 3, 2, func(h *harness) {
		v := h.view()
		defer v.Close()

		best, err := v.BestBlockNumber()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), best)

		// The whole transaction number space is in memory; pivot is zero.
		txs, err := v.TransactionsByTxRange(onyx.OpenRange(0))
		require.NoError(t, err)
		assert.Equal(t, txIDs(h.allTxs()), txIDs(txs))

		indices, err := v.BodyIndices(1)
		require.NoError(t, err)
		assert.Equal(t, onyx.BlockBodyIndices{FirstTxNum: 2, TxCount: 2}, *indices)
	})
}

func TestEmptyChain(t *testing.T) {
	withChain(t, 0, 0, 0, func(h *harness) {
		v := h.view()
		defer v.Close()

		_, err := v.BestBlockNumber()
		require.ErrorIs(t, err, storage.ErrNotFound)

		blocks, err := v.BlocksByRange(onyx.OpenRange(0))
		require.NoError(t, err)
		assert.Empty(t, blocks)

		txs, err := v.TransactionsByTxRange(onyx.OpenRange(0))
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}
