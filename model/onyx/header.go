package onyx

// Header contains the consensus-relevant summary of a block. Headers are
// immutable once created; the canonical chain assigns exactly one header to
// every block number.
type Header struct {

	// Number is the position of the block in the chain. The genesis block has
	// number zero.
	Number uint64

	// ParentHash is the ID of the block at Number-1 that this block extends.
	// It is ZeroHash for the genesis block.
	ParentHash Hash

	// Timestamp is the unix timestamp (in seconds) at which the block was
	// produced.
	Timestamp uint64

	// StateRoot commits to the account state after executing the block.
	StateRoot Hash

	// TxRoot commits to the ordered list of transactions in the block.
	TxRoot Hash

	// ReceiptRoot commits to the receipts produced by executing the block.
	ReceiptRoot Hash

	// Extra is opaque proposer-supplied data.
	Extra []byte
}

// ID returns the content hash of the header, which doubles as the block hash.
func (h *Header) ID() Hash {
	return makeID(h)
}

// ParentNumber returns the block number of the parent. The second return is
// false for the genesis header, which has no parent.
func (h *Header) ParentNumber() (uint64, bool) {
	if h.Number == 0 {
		return 0, false
	}
	return h.Number - 1, true
}
