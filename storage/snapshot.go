package storage

import (
	"github.com/onyxchain/onyx/model/onyx"
)

// HeaderReader is read-only access to block headers held by a store snapshot.
type HeaderReader interface {
	// HeaderByNumber returns the canonical header at the given block number.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	HeaderByNumber(number uint64) (*onyx.Header, error)

	// HeaderByHash returns the header with the given block hash.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed block has the given hash
	HeaderByHash(hash onyx.Hash) (*onyx.Header, error)

	// HeadersByRange returns the canonical headers in [start, end], ascending
	// by number, stopping early at the first missing number. The predicate is
	// evaluated per header; the scan stops and returns a short result as soon
	// as it is false.
	HeadersByRange(start, end uint64, pred func(*onyx.Header) bool) ([]*onyx.Header, error)

	// BlockNumberByHash returns the block number recorded for the given hash.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed block has the given hash
	BlockNumberByHash(hash onyx.Hash) (uint64, error)

	// BlockHashByNumber returns the canonical block hash at the given number.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	BlockHashByNumber(number uint64) (onyx.Hash, error)

	// BlockHashesByRange returns the canonical block hashes in [start, end],
	// ascending by number, stopping early at the first missing number.
	BlockHashesByRange(start, end uint64, pred func(onyx.Hash) bool) ([]onyx.Hash, error)

	// LastBlockNumber returns the number of the highest flushed block.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the store holds no blocks at all
	LastBlockNumber() (uint64, error)
}

// BlockReader is read-only access to full blocks held by a store snapshot.
type BlockReader interface {
	// BlockByNumber returns the canonical block at the given number.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	BlockByNumber(number uint64) (*onyx.Block, error)

	// BlockByHash returns the block with the given hash.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed block has the given hash
	BlockByHash(hash onyx.Hash) (*onyx.Block, error)

	// RecoveredBlockByNumber returns the block at the given number together
	// with its recovered senders.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	RecoveredBlockByNumber(number uint64) (*onyx.RecoveredBlock, error)

	// RecoveredBlockByHash is RecoveredBlockByNumber keyed by block hash.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed block has the given hash
	RecoveredBlockByHash(hash onyx.Hash) (*onyx.RecoveredBlock, error)

	// BlocksByRange returns the canonical blocks in [start, end], ascending
	// by number, stopping early at the first missing number or the first
	// block for which the predicate is false.
	BlocksByRange(start, end uint64, pred func(*onyx.Block) bool) ([]*onyx.Block, error)

	// RecoveredBlocksByRange is BlocksByRange with recovered senders.
	RecoveredBlocksByRange(start, end uint64, pred func(*onyx.RecoveredBlock) bool) ([]*onyx.RecoveredBlock, error)

	// BodyIndices returns the transaction-number indices for the given block.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	BodyIndices(number uint64) (*onyx.BlockBodyIndices, error)
}

// TransactionReader is read-only access to transactions held by a store
// snapshot, keyed by the chain-wide transaction number space.
type TransactionReader interface {
	// TransactionByNumber returns the transaction with the given chain-wide
	// number.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed transaction has the given number
	TransactionByNumber(txNum uint64) (*onyx.Transaction, error)

	// TransactionByHash returns the transaction with the given hash.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed transaction has the given hash
	TransactionByHash(hash onyx.Hash) (*onyx.Transaction, error)

	// TransactionNumberByHash returns the chain-wide number assigned to the
	// transaction with the given hash.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed transaction has the given hash
	TransactionNumberByHash(hash onyx.Hash) (uint64, error)

	// TransactionBlock returns the number of the block containing the
	// transaction with the given chain-wide number.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the number is beyond the flushed chain
	TransactionBlock(txNum uint64) (uint64, error)

	// TransactionsByBlock returns the transactions of the given block in
	// intra-block order.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	TransactionsByBlock(number uint64) ([]*onyx.Transaction, error)

	// TransactionsByRange returns the transactions with chain-wide numbers in
	// [start, end], ascending, stopping early at the first missing number.
	TransactionsByRange(start, end uint64) ([]*onyx.Transaction, error)

	// SendersByRange returns the recovered senders for the chain-wide
	// transaction numbers in [start, end], ascending.
	SendersByRange(start, end uint64) ([]onyx.Address, error)
}

// ReceiptReader is read-only access to receipts held by a store snapshot.
type ReceiptReader interface {
	// ReceiptByTxNumber returns the receipt of the transaction with the given
	// chain-wide number.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed receipt has the given number
	ReceiptByTxNumber(txNum uint64) (*onyx.Receipt, error)

	// ReceiptByTxHash returns the receipt of the transaction with the given
	// hash.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no flushed transaction has the given hash
	ReceiptByTxHash(hash onyx.Hash) (*onyx.Receipt, error)

	// ReceiptsByBlock returns the receipts of the given block in intra-block
	// order.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	ReceiptsByBlock(number uint64) ([]*onyx.Receipt, error)

	// ReceiptsByRange returns the receipts for chain-wide transaction numbers
	// in [start, end], ascending, stopping early at the first missing number.
	ReceiptsByRange(start, end uint64) ([]*onyx.Receipt, error)
}

// ChangesetReader is read-only access to account and storage changesets held
// by a store snapshot. Changesets record prior values: the state of each
// touched account or slot immediately before the keyed block executed.
type ChangesetReader interface {
	// AccountChanges returns the account changeset of the given block. An
	// empty slice means the block touched no accounts.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	AccountChanges(number uint64) ([]onyx.AccountChange, error)

	// StorageChanges returns the storage changeset of the given block. An
	// empty slice means the block touched no storage slots.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	StorageChanges(number uint64) ([]onyx.StorageChange, error)

	// PruneCheckpoint returns the highest pruned block number for the given
	// history segment. The second return is false when the segment has never
	// been pruned.
	PruneCheckpoint(segment PruneSegment) (uint64, bool, error)
}

// StateView is point access to account state as of some block. A nil account
// and a zero slot value denote absence; neither is an error.
type StateView interface {
	// Account returns the state of the given account, or nil if it does not
	// exist in this view.
	Account(addr onyx.Address) (*onyx.Account, error)

	// StorageSlot returns the value of the given slot, or the zero hash if
	// the slot is unset in this view.
	StorageSlot(addr onyx.Address, key onyx.Hash) (onyx.Hash, error)
}

// Snapshot is a read-only, transactionally consistent view of all data
// flushed to the persistent store. A Snapshot observes no writes performed
// after it was opened and remains valid until closed. Callers must not hold
// a Snapshot open for extended periods; the underlying store resources are
// finite.
type Snapshot interface {
	HeaderReader
	BlockReader
	TransactionReader
	ReceiptReader
	ChangesetReader

	// StateView returns the plain account state as observed by this
	// snapshot, i.e. the state after the highest flushed block.
	StateView() StateView

	// StateViewAt returns the account state as of the given flushed block,
	// reconstructed by rewinding changesets of later flushed blocks.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the block has not been flushed to the store
	StateViewAt(number uint64) (StateView, error)

	// Close releases the snapshot. The Snapshot must not be used afterwards.
	Close() error
}

// SnapshotFactory opens read snapshots of the persistent store.
type SnapshotFactory interface {
	// OpenReadSnapshot returns a new consistent read snapshot.
	// Expected errors during normal operations:
	//   - storage.ErrStoreUnavailable if the store cannot serve snapshots
	OpenReadSnapshot() (Snapshot, error)
}
