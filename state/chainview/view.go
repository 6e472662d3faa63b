// Package chainview merges the mutable in-memory chain tail with an immutable
// snapshot of the persistent store into one consistent, point-in-time read
// view of the canonical chain.
//
// A View is captured at construction and answers every query from the same
// joint state: blocks at or below the captured store head come from the store
// snapshot, newer blocks come from the captured in-memory chain, and range
// queries are split across the boundary and merged in ascending order. The
// construction protocol (capture the memory head first, then open the store
// snapshot) guarantees the two sides never leave a gap even while a
// persistence process concurrently flushes blocks from memory to the store.
package chainview

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
)

// View is an atomic chain view: a captured in-memory head node plus a store
// snapshot opened after the capture. A View is cheap to construct, must be
// closed after use, and must not be retained across long intervals since it
// pins store resources. Views are safe for concurrent use, but the intended
// pattern is one View per logical query.
type View struct {
	log     zerolog.Logger
	segment *memchain.Segment
	head    *memchain.ChainNode
	store   storage.Snapshot
}

// New captures an atomic chain view over the given live segment and store.
//
// The memory head is captured strictly before the store snapshot is opened.
// With this order, a block flushed and evicted concurrently is either still
// reachable from the captured head, or was flushed before the capture and is
// therefore visible to the (younger) store snapshot. Opening the store first
// would allow a block to vanish from both sides.
//
// Expected errors during normal operations:
//   - storage.ErrStoreUnavailable if the store cannot produce a snapshot
//   - storage.ErrInconsistentChain if the captured chain does not attach to
//     the flushed chain at its anchor
func New(log zerolog.Logger, factory storage.SnapshotFactory, segment *memchain.Segment) (*View, error) {

	// Capture order is load-bearing, see above.
	head := segment.Head()

	snap, err := factory.OpenReadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("could not open store snapshot: %w", err)
	}

	v := &View{
		log:     log.With().Str("component", "chain_view").Logger(),
		segment: segment,
		head:    head,
		store:   snap,
	}

	err = v.checkAnchor()
	if err != nil {
		_ = snap.Close()
		return nil, err
	}
	return v, nil
}

// checkAnchor verifies that the captured chain's anchor block is the block
// the store snapshot holds at the same number. A mismatch means memory and
// store disagree about the canonical chain, which no tie-break can repair.
func (v *View) checkAnchor() error {
	if v.head == nil {
		return nil
	}
	anchor, ok := v.head.Anchor()
	if !ok {
		// The genesis block is in memory; there is nothing to attach to.
		return nil
	}
	storedHash, err := v.store.BlockHashByNumber(anchor.Number)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: anchor block %d not flushed", storage.ErrInconsistentChain, anchor.Number)
	}
	if err != nil {
		return fmt.Errorf("could not resolve anchor block %d: %w", anchor.Number, err)
	}
	if storedHash != anchor.Hash {
		return fmt.Errorf("%w: anchor block %d is %v in memory, %v in store",
			storage.ErrInconsistentChain, anchor.Number, anchor.Hash, storedHash)
	}
	return nil
}

// Close releases the underlying store snapshot.
func (v *View) Close() error {
	return v.store.Close()
}

// BestBlockNumber returns the number of the newest block in this view.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the chain holds no blocks at all
func (v *View) BestBlockNumber() (uint64, error) {
	if v.head != nil {
		return v.head.Number(), nil
	}
	return v.store.LastBlockNumber()
}

// LastFlushedBlockNumber returns the number of the newest block visible to
// the store snapshot, ignoring the in-memory tail.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the store holds no blocks at all
func (v *View) LastFlushedBlockNumber() (uint64, error) {
	return v.store.LastBlockNumber()
}

// ChainInfo returns the hash and number of the newest block in this view.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the chain holds no blocks at all
func (v *View) ChainInfo() (onyx.ChainInfo, error) {
	if v.head != nil {
		return onyx.ChainInfo{BestHash: v.head.Hash(), BestNumber: v.head.Number()}, nil
	}
	number, err := v.store.LastBlockNumber()
	if err != nil {
		return onyx.ChainInfo{}, err
	}
	hash, err := v.store.BlockHashByNumber(number)
	if err != nil {
		return onyx.ChainInfo{}, err
	}
	return onyx.ChainInfo{BestHash: hash, BestNumber: number}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

// memChainAscending returns the captured in-memory nodes oldest first, or nil
// when the capture found no in-memory blocks.
func (v *View) memChainAscending() []*memchain.ChainNode {
	if v.head == nil {
		return nil
	}
	nodes := v.head.Chain()
	slices.Reverse(nodes)
	return nodes
}

// memNodeByNumber returns the captured node at the given number, or nil when
// that block is not part of the captured chain.
func (v *View) memNodeByNumber(number uint64) *memchain.ChainNode {
	for node := v.head; node != nil; node = node.Parent() {
		if node.Number() == number {
			return node
		}
		if node.Number() < number {
			return nil
		}
	}
	return nil
}

// memNodeByHash returns the captured node with the given hash, or nil when
// that block is not part of the captured chain.
func (v *View) memNodeByHash(hash onyx.Hash) *memchain.ChainNode {
	for node := v.head; node != nil; node = node.Parent() {
		if node.Hash() == hash {
			return node
		}
	}
	return nil
}

// memoryTxPivot returns the chain-wide number of the first in-memory
// transaction. Every transaction number below the pivot belongs to the store.
// The second return is false when the capture found no in-memory blocks, in
// which case the pivot is meaningless.
func (v *View) memoryTxPivot() (uint64, bool, error) {
	if v.head == nil {
		return 0, false, nil
	}
	anchor, ok := v.head.Anchor()
	if !ok {
		// Genesis is in memory; the whole transaction space is in-memory.
		return 0, true, nil
	}
	indices, err := v.store.BodyIndices(anchor.Number)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, storage.NewBodyIndicesNotFoundError(anchor.Number)
	}
	if err != nil {
		return 0, false, fmt.Errorf("could not resolve anchor body indices: %w", err)
	}
	return indices.NextTxNum(), true, nil
}

// lastTxNum returns the chain-wide number of the newest transaction in this
// view. The second return is false when the view holds no transactions.
func (v *View) lastTxNum() (uint64, bool, error) {
	pivot, hasMemory, err := v.memoryTxPivot()
	if err != nil {
		return 0, false, err
	}
	if hasMemory {
		next := pivot
		for _, node := range v.memChainAscending() {
			next += node.Block().Block.TxCount()
		}
		if next == 0 {
			return 0, false, nil
		}
		return next - 1, true, nil
	}

	last, err := v.store.LastBlockNumber()
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	indices, err := v.store.BodyIndices(last)
	if err != nil {
		return 0, false, fmt.Errorf("could not resolve body indices of block %d: %w", last, err)
	}
	if indices.NextTxNum() == 0 {
		return 0, false, nil
	}
	return indices.NextTxNum() - 1, true, nil
}
