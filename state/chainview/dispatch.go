package chainview

import (
	"errors"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
)

// The helpers in this file implement the uniform memory/storage dispatch used
// by every query on a View. Each caller supplies a fetch pair: how to read
// the requested entity from the store snapshot and how to read it from a
// captured chain node. The helpers decide which side (or both) serves the
// query and merge the results in ascending order.

// storeBlockFetch reads an entity for one block from the store snapshot.
type storeBlockFetch[T any] func(snap storage.Snapshot, id onyx.BlockID) (T, error)

// memoryBlockFetch reads an entity for one block from a captured chain node.
type memoryBlockFetch[T any] func(node *memchain.ChainNode) (T, error)

// getByBlock serves a point query keyed by block number or hash: the captured
// chain is consulted first, the store snapshot covers everything older.
func getByBlock[T any](
	v *View,
	id onyx.BlockID,
	fromStore storeBlockFetch[T],
	fromMemory memoryBlockFetch[T],
) (T, error) {
	var node *memchain.ChainNode
	if hash, byHash := id.ByHash(); byHash {
		node = v.memNodeByHash(hash)
	} else if number, byNumber := id.ByNumber(); byNumber {
		node = v.memNodeByNumber(number)
	}
	if node != nil {
		return fromMemory(node)
	}
	return fromStore(v.store, id)
}

// storeRangeFetch reads the entities for the blocks in [start, end] from the
// store snapshot, ascending, stopping early at the first missing block or the
// first entity failing the predicate.
type storeRangeFetch[T any] func(snap storage.Snapshot, start, end uint64, pred func(T) bool) ([]T, error)

// getByBlockRangeWhile serves a range query keyed by block numbers, splitting
// it at the memory/storage boundary.
//
// The store covers [start, oldestMem-1], the captured chain covers the rest;
// when a number is transiently present on both sides the memory side wins.
// The store phase runs first; if it comes back short — a missing block or a
// predicate stop — the memory phase is skipped entirely and the short result
// is returned, since only an exact-length store result proves the scan
// reached the boundary.
func getByBlockRangeWhile[T any](
	v *View,
	r onyx.Range,
	fromStore storeRangeFetch[T],
	fromMemory memoryBlockFetch[T],
	pred func(T) bool,
) ([]T, error) {

	head, ok, err := v.bestForBind()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	r = r.Bind(head)
	if r.Empty() {
		return nil, nil
	}
	start := r.Start()
	end, _ := r.End()

	oldestMem := uint64(0)
	allStore := v.head == nil
	if !allStore {
		oldestMem = v.head.Oldest().Number()
		allStore = oldestMem > end
	}
	if allStore {
		return fromStore(v.store, start, end, pred)
	}

	var items []T
	memStart := start
	if oldestMem > start {
		memStart = oldestMem
		items, err = fromStore(v.store, start, memStart-1, pred)
		if err != nil {
			return nil, err
		}
		if uint64(len(items)) != memStart-start {
			return items, nil
		}
	}

	for _, node := range v.memChainAscending() {
		if node.Number() < memStart {
			continue
		}
		if node.Number() > end {
			break
		}
		item, err := fromMemory(node)
		if err != nil {
			return nil, err
		}
		if pred != nil && !pred(item) {
			break
		}
		items = append(items, item)
	}
	return items, nil
}

// bestForBind resolves the head number used to bind open-ended block ranges.
// The second return is false when the view holds no blocks at all.
func (v *View) bestForBind() (uint64, bool, error) {
	if v.head != nil {
		return v.head.Number(), true, nil
	}
	number, err := v.store.LastBlockNumber()
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return number, true, nil
}

// storeTxRangeFetch reads the entities for chain-wide transaction numbers in
// [start, end] from the store snapshot, ascending, stopping early at the
// first missing number.
type storeTxRangeFetch[T any] func(snap storage.Snapshot, start, end uint64) ([]T, error)

// memoryTxSliceFetch extracts entities for a window of one captured block's
// transactions: `skip` leading transactions are dropped and `take` are
// returned.
type memoryTxSliceFetch[T any] func(node *memchain.ChainNode, skip, take uint64) []T

// getByTxRange serves a range query keyed by chain-wide transaction numbers.
//
// The transaction number space is split at the pivot, the number of the first
// in-memory transaction. Numbers below the pivot are served by the store;
// the remainder walks the captured chain oldest to newest, carrying a running
// counter seeded at the pivot and slicing each block's transactions to the
// window intersecting the requested range.
func getByTxRange[T any](
	v *View,
	r onyx.Range,
	fromStore storeTxRangeFetch[T],
	fromMemory memoryTxSliceFetch[T],
) ([]T, error) {

	last, ok, err := v.lastTxNum()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	r = r.Bind(last)
	if r.Empty() {
		return nil, nil
	}
	start := r.Start()
	end, _ := r.End()

	pivot, hasMemory, err := v.memoryTxPivot()
	if err != nil {
		return nil, err
	}
	if !hasMemory || end < pivot {
		return fromStore(v.store, start, end)
	}

	var items []T
	if start < pivot {
		items, err = fromStore(v.store, start, pivot-1)
		if err != nil {
			return nil, err
		}
		if uint64(len(items)) != pivot-start {
			return items, nil
		}
	}

	counter := pivot
	for _, node := range v.memChainAscending() {
		count := node.Block().Block.TxCount()
		blockFirst := counter
		counter += count
		if count == 0 || counter <= start {
			continue
		}
		if blockFirst > end {
			break
		}

		lo := blockFirst
		if start > lo {
			lo = start
		}
		hi := counter - 1
		if end < hi {
			hi = end
		}
		items = append(items, fromMemory(node, lo-blockFirst, hi-lo+1)...)

		if counter > end {
			break
		}
	}
	return items, nil
}

// storeTxFetch reads one entity by chain-wide transaction number from the
// store snapshot.
type storeTxFetch[T any] func(snap storage.Snapshot, txNum uint64) (T, error)

// memoryTxFetch reads one entity from a captured block by intra-block index.
type memoryTxFetch[T any] func(node *memchain.ChainNode, index int) (T, error)

// getByTx serves a point query keyed by transaction number or hash.
//
// For a hash the captured chain is scanned before any store read; the
// capture-order protocol then guarantees that a transaction flushed and
// evicted mid-query is visible on at least one side. For a number, the pivot
// decides the side outright: below it the store is authoritative, at or above
// it the captured chain covers the whole remaining number space, so a failed
// memory scan is a definitive not-found.
//
// Expected errors during normal operations:
//   - storage.ErrNotFound if no transaction matches the id
func getByTx[T any](
	v *View,
	id onyx.TxID,
	fromStore storeTxFetch[T],
	fromMemory memoryTxFetch[T],
) (T, error) {
	var zero T

	if hash, byHash := id.ByHash(); byHash {
		for _, node := range v.memChainAscending() {
			for i, tx := range node.Block().Block.Transactions {
				if tx.ID() == hash {
					return fromMemory(node, i)
				}
			}
		}
		txNum, err := v.store.TransactionNumberByHash(hash)
		if err != nil {
			return zero, err
		}
		return fromStore(v.store, txNum)
	}

	txNum, _ := id.ByNumber()
	pivot, hasMemory, err := v.memoryTxPivot()
	if err != nil {
		return zero, err
	}
	if !hasMemory || txNum < pivot {
		return fromStore(v.store, txNum)
	}

	counter := pivot
	for _, node := range v.memChainAscending() {
		count := node.Block().Block.TxCount()
		if txNum < counter+count {
			return fromMemory(node, int(txNum-counter))
		}
		counter += count
	}
	return zero, storage.ErrNotFound
}
