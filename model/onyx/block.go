package onyx

// Block includes the header and the full list of transactions.
type Block struct {
	Header       *Header
	Transactions []*Transaction
}

// ID returns the ID of the header.
func (b *Block) ID() Hash {
	return b.Header.ID()
}

// Number returns the block number of the header.
func (b *Block) Number() uint64 {
	return b.Header.Number
}

// TxCount returns the number of transactions in the block.
func (b *Block) TxCount() uint64 {
	return uint64(len(b.Transactions))
}

// RecoveredBlock is a block together with the sender addresses recovered from
// its transaction signatures. Senders[i] is the sender of Transactions[i].
// Recovery happens on the ingestion path; read paths treat the pairing as
// ground truth.
type RecoveredBlock struct {
	Block   *Block
	Senders []Address
}

// ID returns the ID of the underlying block.
func (rb *RecoveredBlock) ID() Hash {
	return rb.Block.ID()
}

// Number returns the block number of the underlying block.
func (rb *RecoveredBlock) Number() uint64 {
	return rb.Block.Number()
}

// ChainInfo describes the current chain head as observed by a view.
type ChainInfo struct {
	BestHash   Hash
	BestNumber uint64
}
