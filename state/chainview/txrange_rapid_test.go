package chainview_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/chainview"
	"github.com/onyxchain/onyx/state/memchain"
	pebblestorage "github.com/onyxchain/onyx/storage/pebble"
	"github.com/onyxchain/onyx/utils/unittest"
)

// For any store/memory split, block shape, and requested range, the merged
// transaction range must equal a slice of the directly concatenated chain.
func TestTransactionsByTxRangeMatchesReference(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		storeN := rapid.IntRange(1, 4).Draw(rt, "storeBlocks")
		memN := rapid.IntRange(0, 4).Draw(rt, "memBlocks")
		total := storeN + memN
		txCounts := rapid.SliceOfN(rapid.IntRange(0, 4), total, total).Draw(rt, "txCounts")

		dir, err := os.MkdirTemp("", "onyx-rapid")
		require.NoError(rt, err)
		defer os.RemoveAll(dir)
		store, err := pebblestorage.Open(unittest.Logger(), dir)
		require.NoError(rt, err)
		defer store.Close()

		builder := unittest.NewChainBuilder()
		var (
			blocks   []*onyx.RecoveredBlock
			receipts [][]*onyx.Receipt
			diffs    []*onyx.StateDiff
			ref      []*onyx.Transaction
		)
		for _, n := range txCounts {
			block, blockReceipts, diff := builder.NextBlock(n)
			blocks = append(blocks, block)
			receipts = append(receipts, blockReceipts)
			diffs = append(diffs, diff)
			ref = append(ref, block.Block.Transactions...)
		}
		require.NoError(rt, store.AppendBlocks(blocks[:storeN], receipts[:storeN], diffs[:storeN]))
		segment := memchain.NewSegment()
		for i := storeN; i < total; i++ {
			require.NoError(rt, segment.Append(blocks[i], receipts[i], diffs[i]))
		}

		v, err := chainview.New(unittest.Logger(), store, segment)
		require.NoError(rt, err)
		defer v.Close()

		bound := len(ref) + 2
		start := rapid.IntRange(0, bound).Draw(rt, "start")
		end := rapid.IntRange(0, bound).Draw(rt, "end")

		txs, err := v.TransactionsByTxRange(onyx.NewRange(uint64(start), uint64(end)))
		require.NoError(rt, err)

		want := txIDs(nil)
		if start <= end && start < len(ref) {
			hi := end
			if hi >= len(ref) {
				hi = len(ref) - 1
			}
			want = txIDs(ref[start : hi+1])
		}
		require.Equal(rt, want, txIDs(txs))
	})
}

func TestTransactionsByBlockRange(t *testing.T) {
	withChain(t, 5, 5, 4, func(h *harness) {
		v := h.view()
		defer v.Close()

		perBlock, err := v.TransactionsByBlockRange(onyx.NewRange(3, 7))
		require.NoError(t, err)
		require.Len(t, perBlock, 5)
		for i, txs := range perBlock {
			require.Equal(t, txIDs(h.blocks[3+i].Block.Transactions), txIDs(txs))
		}
	})
}
