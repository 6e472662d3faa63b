package onyx

// Transaction is a signed state transition submitted by an external account.
// Transactions never mutate after creation.
type Transaction struct {

	// Nonce is the sender's transaction counter at submission time.
	Nonce uint64

	// To is the recipient address; nil for contract creation.
	To *Address

	// Value is the amount transferred to the recipient.
	Value uint64

	// GasLimit caps the computation paid for by this transaction.
	GasLimit uint64

	// Data is the opaque call payload.
	Data []byte

	// Signature holds the sender's signature over the remaining fields. The
	// sender address is recovered from it by the ingestion path and travels
	// alongside the transaction as part of a RecoveredBlock.
	Signature [65]byte
}

// ID returns the content hash of the transaction.
func (tx *Transaction) ID() Hash {
	return makeID(tx)
}

// TransactionMeta locates a transaction within the chain: the block holding
// it, its index inside that block, and its chain-wide number.
type TransactionMeta struct {
	BlockHash   Hash
	BlockNumber uint64
	Index       uint64
	TxNum       uint64
}

// Log is a single event emitted during transaction execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// Receipt is the execution result of a single transaction. Receipts are
// produced once per transaction and keyed by the chain-wide transaction
// number space.
type Receipt struct {

	// TxHash is the ID of the transaction this receipt belongs to.
	TxHash Hash

	// Success reports whether execution completed without reverting.
	Success bool

	// GasUsed is the gas consumed by this transaction alone.
	GasUsed uint64

	// CumulativeGasUsed is the running gas total within the block, up to and
	// including this transaction.
	CumulativeGasUsed uint64

	// Logs are the events emitted during execution, in emission order.
	Logs []Log
}
