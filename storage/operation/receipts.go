package operation

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
)

// InsertReceipt stores the receipt under the chain-wide number of its
// transaction.
func InsertReceipt(w storage.Writer, txNum uint64, receipt *onyx.Receipt) error {
	return upsert(w, makePrefix(codeReceipt, txNum), receipt)
}

// RetrieveReceipt retrieves the receipt for the transaction with the given
// chain-wide number.
func RetrieveReceipt(r storage.Reader, txNum uint64, receipt *onyx.Receipt) error {
	return retrieve(r, makePrefix(codeReceipt, txNum), receipt)
}

// IterateReceipts walks the receipts for chain-wide transaction numbers in
// [start, end] in ascending order.
func IterateReceipts(r storage.Reader, start, end uint64, handle func(*onyx.Receipt) bool) error {
	var receipt *onyx.Receipt
	return iterateRange(r, codeReceipt, start, end,
		func() interface{} {
			receipt = new(onyx.Receipt)
			return receipt
		},
		func(uint64) bool {
			return handle(receipt)
		},
	)
}
