package onyx

// BlockBodyIndices locates the transactions of one block inside the chain-wide
// transaction number space. Transaction numbers are assigned strictly
// increasing in block order, so for consecutive blocks A and B it always holds
// that B.FirstTxNum == A.NextTxNum().
type BlockBodyIndices struct {

	// FirstTxNum is the chain-wide number of the first transaction in the
	// block. For an empty block it is the number the next transaction in a
	// later block will receive.
	FirstTxNum uint64

	// TxCount is the number of transactions in the block.
	TxCount uint64
}

// NextTxNum returns the chain-wide number of the first transaction after this
// block.
func (bi BlockBodyIndices) NextTxNum() uint64 {
	return bi.FirstTxNum + bi.TxCount
}

// LastTxNum returns the chain-wide number of the last transaction in this
// block. For an empty block it returns FirstTxNum, mirroring the convention
// of the persistent store.
func (bi BlockBodyIndices) LastTxNum() uint64 {
	if bi.TxCount == 0 {
		return bi.FirstTxNum
	}
	return bi.FirstTxNum + bi.TxCount - 1
}

// Contains reports whether the given chain-wide transaction number falls
// inside this block.
func (bi BlockBodyIndices) Contains(txNum uint64) bool {
	return txNum >= bi.FirstTxNum && txNum < bi.NextTxNum()
}
