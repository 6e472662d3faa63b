package memchain

import (
	"github.com/onyxchain/onyx/model/onyx"
)

// ChainNode is one executed-but-not-yet-flushed block, linked to its parent
// node. Nodes are immutable after construction: a reader that captured a node
// can walk its ancestry without synchronization, and the walk is unaffected
// by later segment updates, including removal of flushed blocks.
type ChainNode struct {
	block    *onyx.RecoveredBlock
	receipts []*onyx.Receipt
	diff     *onyx.StateDiff

	hash   onyx.Hash
	parent *ChainNode
}

// NewChainNode constructs a node for the given executed block on top of the
// given parent. The parent is nil for the oldest block held in memory.
func NewChainNode(block *onyx.RecoveredBlock, receipts []*onyx.Receipt, diff *onyx.StateDiff, parent *ChainNode) *ChainNode {
	return &ChainNode{
		block:    block,
		receipts: receipts,
		diff:     diff,
		hash:     block.ID(),
		parent:   parent,
	}
}

// Block returns the recovered block held by this node.
func (n *ChainNode) Block() *onyx.RecoveredBlock {
	return n.block
}

// Receipts returns the block's receipts in intra-block order.
func (n *ChainNode) Receipts() []*onyx.Receipt {
	return n.receipts
}

// Diff returns the block's state diff.
func (n *ChainNode) Diff() *onyx.StateDiff {
	return n.diff
}

// Hash returns the block hash, computed once at construction.
func (n *ChainNode) Hash() onyx.Hash {
	return n.hash
}

// Number returns the block number.
func (n *ChainNode) Number() uint64 {
	return n.block.Number()
}

// Parent returns the parent node, or nil when this is the oldest block held
// in memory.
func (n *ChainNode) Parent() *ChainNode {
	return n.parent
}

// ParentHash returns the hash of the parent block, whether or not the parent
// is held in memory.
func (n *ChainNode) ParentHash() onyx.Hash {
	return n.block.Block.Header.ParentHash
}

// Chain returns this node and all its in-memory ancestors, newest first.
func (n *ChainNode) Chain() []*ChainNode {
	var nodes []*ChainNode
	for node := n; node != nil; node = node.parent {
		nodes = append(nodes, node)
	}
	return nodes
}

// Oldest returns the lowest in-memory ancestor of this node, which may be the
// node itself.
func (n *ChainNode) Oldest() *ChainNode {
	node := n
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// Anchor returns the number and hash of the block directly below the oldest
// in-memory ancestor. That block is expected to be the highest block of the
// persistent store at the time this chain was current. The second return is
// false when the oldest in-memory block is the genesis block, which has no
// anchor.
func (n *ChainNode) Anchor() (onyx.NumHash, bool) {
	oldest := n.Oldest()
	number, ok := oldest.block.Block.Header.ParentNumber()
	if !ok {
		return onyx.NumHash{}, false
	}
	return onyx.NumHash{Number: number, Hash: oldest.ParentHash()}, true
}
