package onyx

// Account is the basic state of an externally-owned or contract account.
// A nil *Account denotes an account that does not exist at the queried block.
type Account struct {
	Nonce    uint64
	Balance  uint64
	CodeHash Hash
}

// StorageEntry is a single storage slot of an account. A zero Value denotes an
// empty slot.
type StorageEntry struct {
	Key   Hash
	Value Hash
}

// AccountChange records the state of an account immediately before the block
// it is keyed under applied its effects. Prev is nil when the account did not
// exist before the block.
type AccountChange struct {
	Address Address
	Prev    *Account
}

// StorageChange records the value of a storage slot immediately before the
// block it is keyed under applied its effects.
type StorageChange struct {
	Address Address
	Key     Hash
	Prev    Hash
}

// StateDiff is the state output of executing one block: the changesets needed
// to undo it and the resulting post-state of every touched account and slot.
type StateDiff struct {

	// AccountChanges holds the prior state of every account touched by the
	// block, in deterministic (address) order.
	AccountChanges []AccountChange

	// StorageChanges holds the prior value of every storage slot touched by
	// the block, in deterministic (address, key) order.
	StorageChanges []StorageChange

	// PostAccounts maps every touched address to its state after the block.
	// A nil entry value records a destroyed account.
	PostAccounts map[Address]*Account

	// PostStorage maps every touched slot to its value after the block.
	PostStorage map[Address]map[Hash]Hash
}
