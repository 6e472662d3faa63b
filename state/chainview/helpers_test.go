package chainview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/chainview"
	"github.com/onyxchain/onyx/state/memchain"
	pebblestorage "github.com/onyxchain/onyx/storage/pebble"
	"github.com/onyxchain/onyx/utils/unittest"
)

// harness is a chain split across a real store and an in-memory segment:
// blocks[:storeN] are flushed, the rest live in the segment. states[i] is the
// account state after block i.
type harness struct {
	t       *testing.T
	store   *pebblestorage.Store
	segment *memchain.Segment

	blocks   []*onyx.RecoveredBlock
	receipts [][]*onyx.Receipt
	diffs    []*onyx.StateDiff
	states   []map[onyx.Address]*onyx.Account
	pool     []onyx.Address
}

func withChain(t *testing.T, storeN, memN, txPer int, f func(h *harness)) {
	unittest.RunWithStore(t, func(store *pebblestorage.Store) {
		builder := unittest.NewChainBuilder()
		h := &harness{
			t:       t,
			store:   store,
			segment: memchain.NewSegment(),
			pool:    builder.Pool(),
		}
		for i := 0; i < storeN+memN; i++ {
			block, receipts, diff := builder.NextBlock(txPer)
			h.blocks = append(h.blocks, block)
			h.receipts = append(h.receipts, receipts)
			h.diffs = append(h.diffs, diff)
			h.states = append(h.states, builder.Accounts())
		}
		if storeN > 0 {
			require.NoError(t, store.AppendBlocks(h.blocks[:storeN], h.receipts[:storeN], h.diffs[:storeN]))
		}
		for i := storeN; i < storeN+memN; i++ {
			require.NoError(t, h.segment.Append(h.blocks[i], h.receipts[i], h.diffs[i]))
		}
		f(h)
	})
}

// view captures a fresh atomic view over the harness chain.
func (h *harness) view() *chainview.View {
	v, err := chainview.New(unittest.Logger(), h.store, h.segment)
	require.NoError(h.t, err)
	return v
}

// allTxs returns the transactions of every block, concatenated in chain-wide
// number order.
func (h *harness) allTxs() []*onyx.Transaction {
	var txs []*onyx.Transaction
	for _, block := range h.blocks {
		txs = append(txs, block.Block.Transactions...)
	}
	return txs
}

func txIDs(txs []*onyx.Transaction) []onyx.Hash {
	ids := make([]onyx.Hash, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID())
	}
	return ids
}

func blockIDs(blocks []*onyx.Block) []onyx.Hash {
	ids := make([]onyx.Hash, 0, len(blocks))
	for _, block := range blocks {
		ids = append(ids, block.ID())
	}
	return ids
}

func chainIDs(blocks []*onyx.RecoveredBlock) []onyx.Hash {
	ids := make([]onyx.Hash, 0, len(blocks))
	for _, block := range blocks {
		ids = append(ids, block.ID())
	}
	return ids
}
