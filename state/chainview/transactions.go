package chainview

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
)

// TransactionByNumber returns the transaction with the given chain-wide
// number.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no transaction with that number
func (v *View) TransactionByNumber(txNum uint64) (*onyx.Transaction, error) {
	return v.TransactionByID(onyx.TxIDFromNumber(txNum))
}

// TransactionByHash returns the transaction with the given hash. The captured
// chain is scanned before any store read, so a transaction flushed and
// evicted while this call runs is still found.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no transaction with that hash
func (v *View) TransactionByHash(hash onyx.Hash) (*onyx.Transaction, error) {
	return v.TransactionByID(onyx.TxIDFromHash(hash))
}

// TransactionByID returns the transaction identified by chain-wide number or
// hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no matching transaction
func (v *View) TransactionByID(id onyx.TxID) (*onyx.Transaction, error) {
	return getByTx(v, id,
		func(snap storage.Snapshot, txNum uint64) (*onyx.Transaction, error) {
			return snap.TransactionByNumber(txNum)
		},
		func(node *memchain.ChainNode, index int) (*onyx.Transaction, error) {
			return node.Block().Block.Transactions[index], nil
		},
	)
}

// TransactionID returns the chain-wide number of the transaction with the
// given hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no transaction with that hash
func (v *View) TransactionID(hash onyx.Hash) (uint64, error) {
	for _, node := range v.memChainAscending() {
		for i, tx := range node.Block().Block.Transactions {
			if tx.ID() == hash {
				indices, err := v.BodyIndices(node.Number())
				if err != nil {
					return 0, err
				}
				return indices.FirstTxNum + uint64(i), nil
			}
		}
	}
	return v.store.TransactionNumberByHash(hash)
}

// TransactionByHashWithMeta returns the transaction with the given hash
// together with its position in the chain.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no transaction with that hash
func (v *View) TransactionByHashWithMeta(hash onyx.Hash) (*onyx.Transaction, *onyx.TransactionMeta, error) {
	for _, node := range v.memChainAscending() {
		for i, tx := range node.Block().Block.Transactions {
			if tx.ID() == hash {
				indices, err := v.BodyIndices(node.Number())
				if err != nil {
					return nil, nil, err
				}
				meta := &onyx.TransactionMeta{
					BlockHash:   node.Hash(),
					BlockNumber: node.Number(),
					Index:       uint64(i),
					TxNum:       indices.FirstTxNum + uint64(i),
				}
				return tx, meta, nil
			}
		}
	}

	txNum, err := v.store.TransactionNumberByHash(hash)
	if err != nil {
		return nil, nil, err
	}
	tx, err := v.store.TransactionByNumber(txNum)
	if err != nil {
		return nil, nil, err
	}
	blockNumber, err := v.store.TransactionBlock(txNum)
	if err != nil {
		return nil, nil, err
	}
	indices, err := v.store.BodyIndices(blockNumber)
	if err != nil {
		return nil, nil, err
	}
	blockHash, err := v.store.BlockHashByNumber(blockNumber)
	if err != nil {
		return nil, nil, err
	}
	meta := &onyx.TransactionMeta{
		BlockHash:   blockHash,
		BlockNumber: blockNumber,
		Index:       txNum - indices.FirstTxNum,
		TxNum:       txNum,
	}
	return tx, meta, nil
}

// TransactionBlock returns the number of the block containing the
// transaction with the given chain-wide number.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no transaction with that number
func (v *View) TransactionBlock(txNum uint64) (uint64, error) {
	pivot, hasMemory, err := v.memoryTxPivot()
	if err != nil {
		return 0, err
	}
	if !hasMemory || txNum < pivot {
		return v.store.TransactionBlock(txNum)
	}

	counter := pivot
	for _, node := range v.memChainAscending() {
		counter += node.Block().Block.TxCount()
		if txNum < counter {
			return node.Number(), nil
		}
	}
	return 0, storage.ErrNotFound
}

// TransactionsByBlock returns the transactions of the identified block in
// intra-block order.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no matching block
func (v *View) TransactionsByBlock(id onyx.BlockID) ([]*onyx.Transaction, error) {
	return getByBlock(v, id,
		func(snap storage.Snapshot, id onyx.BlockID) ([]*onyx.Transaction, error) {
			if hash, byHash := id.ByHash(); byHash {
				block, err := snap.BlockByHash(hash)
				if err != nil {
					return nil, err
				}
				return block.Transactions, nil
			}
			number, _ := id.ByNumber()
			return snap.TransactionsByBlock(number)
		},
		func(node *memchain.ChainNode) ([]*onyx.Transaction, error) {
			return node.Block().Block.Transactions, nil
		},
	)
}

// TransactionsByBlockRange returns the transactions of every block in the
// given range, one slice per block in ascending block order.
func (v *View) TransactionsByBlockRange(r onyx.Range) ([][]*onyx.Transaction, error) {
	return getByBlockRangeWhile(v, r,
		func(snap storage.Snapshot, start, end uint64, pred func([]*onyx.Transaction) bool) ([][]*onyx.Transaction, error) {
			blocks := make([][]*onyx.Transaction, 0, end-start+1)
			for number := start; number <= end; number++ {
				txs, err := snap.TransactionsByBlock(number)
				if isNotFound(err) {
					break
				}
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, txs)
			}
			return blocks, nil
		},
		func(node *memchain.ChainNode) ([]*onyx.Transaction, error) {
			return node.Block().Block.Transactions, nil
		},
		nil,
	)
}

// TransactionsByTxRange returns the transactions with chain-wide numbers in
// the given range, in strictly increasing number order across the
// memory/storage boundary.
func (v *View) TransactionsByTxRange(r onyx.Range) ([]*onyx.Transaction, error) {
	return getByTxRange(v, r,
		func(snap storage.Snapshot, start, end uint64) ([]*onyx.Transaction, error) {
			return snap.TransactionsByRange(start, end)
		},
		func(node *memchain.ChainNode, skip, take uint64) []*onyx.Transaction {
			return node.Block().Block.Transactions[skip : skip+take]
		},
	)
}

// SendersByTxRange returns the recovered senders for the chain-wide
// transaction numbers in the given range, ascending.
func (v *View) SendersByTxRange(r onyx.Range) ([]onyx.Address, error) {
	return getByTxRange(v, r,
		func(snap storage.Snapshot, start, end uint64) ([]onyx.Address, error) {
			return snap.SendersByRange(start, end)
		},
		func(node *memchain.ChainNode, skip, take uint64) []onyx.Address {
			return node.Block().Senders[skip : skip+take]
		},
	)
}
