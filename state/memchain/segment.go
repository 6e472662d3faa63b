package memchain

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"github.com/onyxchain/onyx/model/onyx"
)

// Segment is the mutable tail of the chain held in memory: every block that
// has been executed but not yet flushed to the persistent store. Readers load
// the head node with a single atomic read and then operate on the immutable
// node chain, so a captured head stays internally consistent no matter how
// the segment advances afterwards.
//
// Writers (Append, RemovePersisted) are serialized by a mutex; there is one
// logical writer in a node, but the guard makes the segment safe regardless.
type Segment struct {
	mu   sync.Mutex
	head atomic.Pointer[ChainNode]
}

// NewSegment returns an empty segment.
func NewSegment() *Segment {
	return &Segment{}
}

// Head returns the current newest in-memory node, or nil when every executed
// block has been flushed.
func (s *Segment) Head() *ChainNode {
	return s.head.Load()
}

// Append adds an executed block on top of the current head.
// The block must extend the in-memory chain directly; on an empty segment any
// starting block is accepted, since the blocks below it live in the store.
func (s *Segment) Append(block *onyx.RecoveredBlock, receipts []*onyx.Receipt, diff *onyx.StateDiff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	head := s.head.Load()
	if head != nil {
		if block.Number() != head.Number()+1 {
			return fmt.Errorf("cannot append block %d onto in-memory head %d",
				block.Number(), head.Number())
		}
		if block.Block.Header.ParentHash != head.Hash() {
			return fmt.Errorf("block %d does not extend in-memory head %v",
				block.Number(), head.Hash())
		}
	}

	s.head.Store(NewChainNode(block, receipts, diff, head))
	return nil
}

// RemovePersisted drops all in-memory blocks with number at most upTo,
// typically right after those blocks were flushed to the store. Nodes above
// the cut are rebuilt so the retained chain no longer references the dropped
// blocks; heads captured before the call keep seeing the full chain.
func (s *Segment) RemovePersisted(upTo uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	head := s.head.Load()
	if head == nil {
		return
	}
	if head.Number() <= upTo {
		s.head.Store(nil)
		return
	}

	var retained []*ChainNode
	for node := head; node != nil && node.Number() > upTo; node = node.Parent() {
		retained = append(retained, node)
	}

	// Rebuild oldest to newest with fresh parent links.
	var parent *ChainNode
	for i := len(retained) - 1; i >= 0; i-- {
		node := retained[i]
		parent = NewChainNode(node.Block(), node.Receipts(), node.Diff(), parent)
	}
	s.head.Store(parent)
}

// NodeByHash returns the current in-memory node with the given block hash, or
// nil if no such block is held in memory right now.
func (s *Segment) NodeByHash(hash onyx.Hash) *ChainNode {
	for node := s.head.Load(); node != nil; node = node.Parent() {
		if node.Hash() == hash {
			return node
		}
	}
	return nil
}

// NodeByNumber returns the current in-memory node at the given block number,
// or nil if that block is not held in memory right now.
func (s *Segment) NodeByNumber(number uint64) *ChainNode {
	for node := s.head.Load(); node != nil; node = node.Parent() {
		if node.Number() == number {
			return node
		}
		if node.Number() < number {
			return nil
		}
	}
	return nil
}

// TransactionByHash scans the current in-memory blocks, newest first, for a
// transaction with the given hash. It returns the node holding the
// transaction and its intra-block index, or (nil, 0) when not found.
func (s *Segment) TransactionByHash(hash onyx.Hash) (*ChainNode, int) {
	for node := s.head.Load(); node != nil; node = node.Parent() {
		for i, tx := range node.Block().Block.Transactions {
			if tx.ID() == hash {
				return node, i
			}
		}
	}
	return nil, 0
}
