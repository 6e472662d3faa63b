package chainview

import (
	"fmt"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
)

// StateView returns the account state as of the newest block in this view.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no blocks at all
func (v *View) StateView() (storage.StateView, error) {
	best, ok, err := v.bestForBind()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v.StateViewAt(best)
}

// StateViewAt returns the account state as of the given block. For a block in
// the captured chain the store's plain state is overlaid with the post values
// of the in-memory blocks up to and including it; for a flushed block the
// store rewinds its changesets.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no block at that number
//   - storage.ErrStateAtBlockPruned if the rewind would cross pruned history
func (v *View) StateViewAt(number uint64) (storage.StateView, error) {
	best, ok, err := v.bestForBind()
	if err != nil {
		return nil, err
	}
	if !ok || number > best {
		return nil, storage.ErrNotFound
	}
	if v.memNodeByNumber(number) != nil {
		return &overlayStateView{view: v, number: number, fallback: v.store.StateView()}, nil
	}
	return v.store.StateViewAt(number)
}

// overlayStateView reads state as of an in-memory block: the captured chain's
// diffs are consulted newest-to-oldest down to the target block, falling back
// to the store's plain state for anything no in-memory block touched.
//
// The store's plain state may already include blocks that are also still in
// the captured chain (a flush can land after the capture); re-applying their
// post values is harmless since both sides record identical values.
type overlayStateView struct {
	view     *View
	number   uint64
	fallback storage.StateView
}

var _ storage.StateView = (*overlayStateView)(nil)

func (o *overlayStateView) Account(addr onyx.Address) (*onyx.Account, error) {
	for node := o.view.memNodeByNumber(o.number); node != nil; node = node.Parent() {
		if account, touched := node.Diff().PostAccounts[addr]; touched {
			return account, nil
		}
	}
	return o.fallback.Account(addr)
}

func (o *overlayStateView) StorageSlot(addr onyx.Address, key onyx.Hash) (onyx.Hash, error) {
	for node := o.view.memNodeByNumber(o.number); node != nil; node = node.Parent() {
		if slots, ok := node.Diff().PostStorage[addr]; ok {
			if value, touched := slots[key]; touched {
				return value, nil
			}
		}
		// Destroying an account clears its whole storage, including slots
		// the destroying block did not list individually.
		if account, touched := node.Diff().PostAccounts[addr]; touched && account == nil {
			return onyx.ZeroHash, nil
		}
	}
	return o.fallback.StorageSlot(addr, key)
}

// StateByRange reconstructs the execution outcome of the given block range:
// the aggregate account/storage delta across the range, the per-block revert
// records, and the receipts grouped per block. An empty range yields nil.
//
// Expected errors during normal operations:
//   - storage.ErrBodyIndicesNotFound if any block in range has no resolvable
//     body indices
//   - storage.ErrStateAtBlockPruned if any changeset in range was pruned
func (v *View) StateByRange(r onyx.Range) (*onyx.ExecutionOutcome, error) {
	best, ok, err := v.bestForBind()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	r = r.Bind(best)
	if r.Empty() {
		return nil, nil
	}
	start := r.Start()
	end, _ := r.End()

	// Body indices anchor the per-block transaction counts; without them
	// receipts cannot be attributed to blocks and the call cannot proceed.
	counts := make([]uint64, 0, end-start+1)
	var firstTxNum, totalTxs uint64
	for number := start; number <= end; number++ {
		indices, err := v.BodyIndices(number)
		if isNotFound(err) {
			return nil, storage.NewBodyIndicesNotFoundError(number)
		}
		if err != nil {
			return nil, fmt.Errorf("could not resolve body indices of block %d: %w", number, err)
		}
		if number == start {
			firstTxNum = indices.FirstTxNum
		}
		counts = append(counts, indices.TxCount)
		totalTxs += indices.TxCount
	}

	receipts := make([][]*onyx.Receipt, len(counts))
	if totalTxs > 0 {
		flat, err := v.ReceiptsByTxRange(onyx.NewRange(firstTxNum, firstTxNum+totalTxs-1))
		if err != nil {
			return nil, err
		}
		if uint64(len(flat)) != totalTxs {
			return nil, fmt.Errorf("receipt count mismatch for blocks [%d, %d]: want %d, have %d",
				start, end, totalTxs, len(flat))
		}
		offset := uint64(0)
		for i, count := range counts {
			receipts[i] = flat[offset : offset+count]
			offset += count
		}
	}

	accountChanges := make(map[uint64][]onyx.AccountChange, end-start+1)
	storageChanges := make(map[uint64][]onyx.StorageChange, end-start+1)
	for number := start; number <= end; number++ {
		accountChanges[number], err = v.AccountChanges(number)
		if err != nil {
			return nil, err
		}
		storageChanges[number], err = v.StorageChanges(number)
		if err != nil {
			return nil, err
		}
	}

	endState, err := v.StateViewAt(end)
	if err != nil {
		return nil, err
	}

	return populateOutcome(start, end, accountChanges, storageChanges, receipts, endState)
}

// StateByBlock reconstructs the execution outcome of a single block. For a
// captured in-memory block the outcome comes straight from the node's own
// diff and receipts; a flushed block goes through the range reconstructor.
//
// Expected errors during normal operations: same as StateByRange.
func (v *View) StateByBlock(number uint64) (*onyx.ExecutionOutcome, error) {
	node := v.memNodeByNumber(number)
	if node == nil {
		return v.StateByRange(onyx.NewRange(number, number))
	}

	endState, err := v.StateViewAt(number)
	if err != nil {
		return nil, err
	}
	diff := node.Diff()
	return populateOutcome(number, number,
		map[uint64][]onyx.AccountChange{number: diff.AccountChanges},
		map[uint64][]onyx.StorageChange{number: diff.StorageChanges},
		[][]*onyx.Receipt{node.Receipts()},
		endState,
	)
}

// populateOutcome replays the changesets of blocks [start, end] in reverse
// block order against a state view anchored at the range's end.
//
// On the first touch of an account or slot its current (post-range) value is
// seeded from the end state; every subsequent touch of an older block
// overwrites the prior value, so after the full descending replay each delta
// holds the value immediately before `start` and the value after `end`. The
// descending order is what makes the final prior value the oldest one.
func populateOutcome(
	start, end uint64,
	accountChanges map[uint64][]onyx.AccountChange,
	storageChanges map[uint64][]onyx.StorageChange,
	receipts [][]*onyx.Receipt,
	endState storage.StateView,
) (*onyx.ExecutionOutcome, error) {

	state := make(map[onyx.Address]*onyx.AccountDelta)
	reverts := make(map[uint64]map[onyx.Address]*onyx.AccountRevert)

	seedDelta := func(addr onyx.Address) (*onyx.AccountDelta, error) {
		delta, ok := state[addr]
		if ok {
			return delta, nil
		}
		curr, err := endState.Account(addr)
		if err != nil {
			return nil, fmt.Errorf("could not seed account %x: %w", addr, err)
		}
		// An account reached only through its storage changesets keeps
		// Prev == Curr: the slots moved, the account itself did not.
		delta = &onyx.AccountDelta{Prev: curr, Curr: curr, Storage: make(map[onyx.Hash]onyx.SlotDelta)}
		state[addr] = delta
		return delta, nil
	}
	revertFor := func(number uint64, addr onyx.Address) *onyx.AccountRevert {
		blockReverts, ok := reverts[number]
		if !ok {
			blockReverts = make(map[onyx.Address]*onyx.AccountRevert)
			reverts[number] = blockReverts
		}
		revert, ok := blockReverts[addr]
		if !ok {
			revert = &onyx.AccountRevert{}
			blockReverts[addr] = revert
		}
		return revert
	}

	for number := end; ; number-- {
		for _, change := range accountChanges[number] {
			delta, err := seedDelta(change.Address)
			if err != nil {
				return nil, err
			}
			delta.Prev = change.Prev

			revert := revertFor(number, change.Address)
			revert.Prev = change.Prev
			revert.PrevSet = true
		}

		for _, change := range storageChanges[number] {
			delta, err := seedDelta(change.Address)
			if err != nil {
				return nil, err
			}
			slot, ok := delta.Storage[change.Key]
			if !ok {
				curr, err := endState.StorageSlot(change.Address, change.Key)
				if err != nil {
					return nil, fmt.Errorf("could not seed slot %x/%x: %w", change.Address, change.Key, err)
				}
				slot = onyx.SlotDelta{Curr: curr}
			}
			slot.Prev = change.Prev
			delta.Storage[change.Key] = slot

			revert := revertFor(number, change.Address)
			revert.Storage = append(revert.Storage, onyx.StorageEntry{Key: change.Key, Value: change.Prev})
		}

		if number == start {
			break
		}
	}

	return &onyx.ExecutionOutcome{
		FirstBlock: start,
		State:      state,
		Reverts:    reverts,
		Receipts:   receipts,
	}, nil
}
