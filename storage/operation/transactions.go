package operation

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
)

// InsertTransaction stores the transaction under its chain-wide number and
// indexes the number by the transaction hash.
func InsertTransaction(w storage.Writer, txNum uint64, tx *onyx.Transaction) error {
	err := upsert(w, makePrefix(codeTransaction, txNum), tx)
	if err != nil {
		return err
	}
	return upsert(w, makePrefix(codeTxNumberByHash, tx.ID()), txNum)
}

// RetrieveTransaction retrieves the transaction with the given chain-wide
// number.
func RetrieveTransaction(r storage.Reader, txNum uint64, tx *onyx.Transaction) error {
	return retrieve(r, makePrefix(codeTransaction, txNum), tx)
}

// LookupTransactionNumber retrieves the chain-wide number indexed by the
// given transaction hash.
func LookupTransactionNumber(r storage.Reader, txHash onyx.Hash, txNum *uint64) error {
	return retrieve(r, makePrefix(codeTxNumberByHash, txHash), txNum)
}

// IterateTransactions walks the transactions with chain-wide numbers in
// [start, end] in ascending order.
func IterateTransactions(r storage.Reader, start, end uint64, handle func(*onyx.Transaction) bool) error {
	var tx *onyx.Transaction
	return iterateRange(r, codeTransaction, start, end,
		func() interface{} {
			tx = new(onyx.Transaction)
			return tx
		},
		func(uint64) bool {
			return handle(tx)
		},
	)
}

// InsertSender stores the recovered sender of the transaction with the given
// chain-wide number.
func InsertSender(w storage.Writer, txNum uint64, sender onyx.Address) error {
	return upsert(w, makePrefix(codeSender, txNum), &sender)
}

// IterateSenders walks the recovered senders for chain-wide transaction
// numbers in [start, end] in ascending order.
func IterateSenders(r storage.Reader, start, end uint64, handle func(onyx.Address) bool) error {
	var sender *onyx.Address
	return iterateRange(r, codeSender, start, end,
		func() interface{} {
			sender = new(onyx.Address)
			return sender
		},
		func(uint64) bool {
			return handle(*sender)
		},
	)
}

// RetrieveSender retrieves the recovered sender of the transaction with the
// given chain-wide number.
func RetrieveSender(r storage.Reader, txNum uint64, sender *onyx.Address) error {
	return retrieve(r, makePrefix(codeSender, txNum), sender)
}
