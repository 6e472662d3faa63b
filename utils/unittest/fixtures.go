package unittest

import (
	"math/rand"

	"github.com/onyxchain/onyx/model/onyx"
)

func HashFixture() onyx.Hash {
	var hash onyx.Hash
	read(hash[:])
	return hash
}

func AddressFixture() onyx.Address {
	var addr onyx.Address
	read(addr[:])
	return addr
}

func AccountFixture() *onyx.Account {
	return &onyx.Account{
		Nonce:    rand.Uint64() % 1000,
		Balance:  rand.Uint64() % 1_000_000,
		CodeHash: HashFixture(),
	}
}

// HeaderFixture returns a header at the given number extending the given
// parent hash.
func HeaderFixture(number uint64, parent onyx.Hash) *onyx.Header {
	return &onyx.Header{
		Number:      number,
		ParentHash:  parent,
		Timestamp:   1_700_000_000 + number*12,
		StateRoot:   HashFixture(),
		TxRoot:      HashFixture(),
		ReceiptRoot: HashFixture(),
	}
}

func TransactionFixture() *onyx.Transaction {
	to := AddressFixture()
	tx := &onyx.Transaction{
		Nonce:    rand.Uint64() % 1000,
		To:       &to,
		Value:    rand.Uint64() % 10_000,
		GasLimit: 21_000,
		Data:     nil,
	}
	read(tx.Signature[:])
	return tx
}

func TransactionFixtures(n int) []*onyx.Transaction {
	txs := make([]*onyx.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, TransactionFixture())
	}
	return txs
}

// ReceiptFixture returns a receipt for the given transaction with the given
// running gas total.
func ReceiptFixture(tx *onyx.Transaction, cumulative uint64) *onyx.Receipt {
	used := uint64(21_000)
	return &onyx.Receipt{
		TxHash:            tx.ID(),
		Success:           true,
		GasUsed:           used,
		CumulativeGasUsed: cumulative + used,
		Logs: []onyx.Log{{
			Address: AddressFixture(),
			Topics:  []onyx.Hash{HashFixture()},
		}},
	}
}

func read(b []byte) {
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
}
