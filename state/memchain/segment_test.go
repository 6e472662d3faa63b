package memchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/utils/unittest"
)

func TestSegmentAppend(t *testing.T) {
	builder := unittest.NewChainBuilder()
	blocks, receipts, diffs := builder.Blocks(3, 2)

	segment := memchain.NewSegment()
	require.Nil(t, segment.Head())

	for i := range blocks {
		require.NoError(t, segment.Append(blocks[i], receipts[i], diffs[i]))
	}
	require.Equal(t, uint64(2), segment.Head().Number())

	// The next block must extend the head directly.
	gap, gapReceipts, gapDiff := builder.Blocks(2, 2)
	err := segment.Append(gap[1], gapReceipts[1], gapDiff[1])
	require.Error(t, err)

	// A matching number with the wrong parent hash is also rejected.
	stranger := unittest.NewChainBuilder()
	other, otherReceipts, otherDiffs := stranger.Blocks(4, 2)
	err = segment.Append(other[3], otherReceipts[3], otherDiffs[3])
	require.Error(t, err)
}

func TestSegmentLookups(t *testing.T) {
	builder := unittest.NewChainBuilder()
	blocks, receipts, diffs := builder.Blocks(4, 3)

	segment := memchain.NewSegment()
	for i := range blocks {
		require.NoError(t, segment.Append(blocks[i], receipts[i], diffs[i]))
	}

	node := segment.NodeByNumber(2)
	require.NotNil(t, node)
	assert.Equal(t, blocks[2].ID(), node.Hash())

	node = segment.NodeByHash(blocks[1].ID())
	require.NotNil(t, node)
	assert.Equal(t, uint64(1), node.Number())

	assert.Nil(t, segment.NodeByNumber(4))
	assert.Nil(t, segment.NodeByHash(unittest.HashFixture()))

	wantTx := blocks[3].Block.Transactions[1]
	foundNode, index := segment.TransactionByHash(wantTx.ID())
	require.NotNil(t, foundNode)
	assert.Equal(t, uint64(3), foundNode.Number())
	assert.Equal(t, 1, index)
}

func TestSegmentAnchor(t *testing.T) {
	builder := unittest.NewChainBuilder()
	blocks, receipts, diffs := builder.Blocks(3, 1)

	// A chain starting at genesis has no anchor.
	segment := memchain.NewSegment()
	require.NoError(t, segment.Append(blocks[0], receipts[0], diffs[0]))
	_, ok := segment.Head().Anchor()
	assert.False(t, ok)

	// A chain starting above genesis anchors at its parent.
	segment = memchain.NewSegment()
	require.NoError(t, segment.Append(blocks[1], receipts[1], diffs[1]))
	require.NoError(t, segment.Append(blocks[2], receipts[2], diffs[2]))
	anchor, ok := segment.Head().Anchor()
	require.True(t, ok)
	assert.Equal(t, uint64(0), anchor.Number)
	assert.Equal(t, blocks[0].ID(), anchor.Hash)
}

func TestSegmentRemovePersisted(t *testing.T) {
	builder := unittest.NewChainBuilder()
	blocks, receipts, diffs := builder.Blocks(5, 2)

	segment := memchain.NewSegment()
	for i := range blocks {
		require.NoError(t, segment.Append(blocks[i], receipts[i], diffs[i]))
	}

	captured := segment.Head()
	segment.RemovePersisted(2)

	// The live segment now starts above the cut and anchors at it.
	head := segment.Head()
	require.NotNil(t, head)
	assert.Equal(t, uint64(4), head.Number())
	assert.Equal(t, uint64(3), head.Oldest().Number())
	anchor, ok := head.Anchor()
	require.True(t, ok)
	assert.Equal(t, uint64(2), anchor.Number)
	assert.Equal(t, blocks[2].ID(), anchor.Hash)

	// A head captured before the removal still walks the full chain.
	assert.Equal(t, uint64(0), captured.Oldest().Number())
	assert.Len(t, captured.Chain(), 5)

	// Dropping everything empties the segment.
	segment.RemovePersisted(4)
	assert.Nil(t, segment.Head())
}
