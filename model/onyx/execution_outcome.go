package onyx

// SlotDelta captures a storage slot's value before and after a block range.
type SlotDelta struct {
	Prev Hash
	Curr Hash
}

// AccountDelta captures an account's state before and after a block range,
// together with the deltas of its touched storage slots.
type AccountDelta struct {
	Prev    *Account
	Curr    *Account
	Storage map[Hash]SlotDelta
}

// AccountRevert records what is needed to undo one block's effect on one
// account: the account state immediately before the block and the prior
// values of its touched slots.
type AccountRevert struct {

	// Prev is the account state before the block; only meaningful when
	// PrevSet is true (a block can touch storage without touching the
	// account itself).
	Prev    *Account
	PrevSet bool

	// Storage holds the slot values before the block, in the order the
	// changesets were recorded.
	Storage []StorageEntry
}

// ExecutionOutcome is the reconstructed output of executing a contiguous
// range of blocks: the aggregate state delta across the range, the per-block
// revert information, and the receipts grouped per block.
type ExecutionOutcome struct {

	// FirstBlock is the lowest block number covered by the outcome.
	FirstBlock uint64

	// State aggregates the delta of every account touched anywhere in the
	// range: its state before the first block and after the last.
	State map[Address]*AccountDelta

	// Reverts is keyed by block number, then address, and records the prior
	// values needed to undo that single block.
	Reverts map[uint64]map[Address]*AccountRevert

	// Receipts holds one slice per block in the range, in ascending block
	// order; Receipts[i] belongs to block FirstBlock+i.
	Receipts [][]*Receipt
}

// BlockCount returns the number of blocks covered by the outcome.
func (eo *ExecutionOutcome) BlockCount() int {
	return len(eo.Receipts)
}

// RevertsFor returns the revert records for the given block, or nil if the
// block is not covered or touched nothing.
func (eo *ExecutionOutcome) RevertsFor(block uint64) map[Address]*AccountRevert {
	return eo.Reverts[block]
}
