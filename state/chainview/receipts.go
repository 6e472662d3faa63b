package chainview

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/state/memchain"
	"github.com/onyxchain/onyx/storage"
)

// ReceiptByTxNumber returns the receipt of the transaction with the given
// chain-wide number.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no transaction with that number
func (v *View) ReceiptByTxNumber(txNum uint64) (*onyx.Receipt, error) {
	return v.ReceiptByID(onyx.TxIDFromNumber(txNum))
}

// ReceiptByTxHash returns the receipt of the transaction with the given hash,
// with the same memory-first ordering as TransactionByHash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no transaction with that hash
func (v *View) ReceiptByTxHash(hash onyx.Hash) (*onyx.Receipt, error) {
	return v.ReceiptByID(onyx.TxIDFromHash(hash))
}

// ReceiptByID returns the receipt of the transaction identified by chain-wide
// number or hash.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no matching transaction
func (v *View) ReceiptByID(id onyx.TxID) (*onyx.Receipt, error) {
	return getByTx(v, id,
		func(snap storage.Snapshot, txNum uint64) (*onyx.Receipt, error) {
			return snap.ReceiptByTxNumber(txNum)
		},
		func(node *memchain.ChainNode, index int) (*onyx.Receipt, error) {
			return node.Receipts()[index], nil
		},
	)
}

// ReceiptsByBlock returns the receipts of the identified block in intra-block
// order.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the view holds no matching block
func (v *View) ReceiptsByBlock(id onyx.BlockID) ([]*onyx.Receipt, error) {
	return getByBlock(v, id,
		func(snap storage.Snapshot, id onyx.BlockID) ([]*onyx.Receipt, error) {
			number := uint64(0)
			if hash, byHash := id.ByHash(); byHash {
				var err error
				number, err = snap.BlockNumberByHash(hash)
				if err != nil {
					return nil, err
				}
			} else {
				number, _ = id.ByNumber()
			}
			return snap.ReceiptsByBlock(number)
		},
		func(node *memchain.ChainNode) ([]*onyx.Receipt, error) {
			return node.Receipts(), nil
		},
	)
}

// ReceiptsByTxRange returns the receipts for chain-wide transaction numbers
// in the given range, ascending.
func (v *View) ReceiptsByTxRange(r onyx.Range) ([]*onyx.Receipt, error) {
	return getByTxRange(v, r,
		func(snap storage.Snapshot, start, end uint64) ([]*onyx.Receipt, error) {
			return snap.ReceiptsByRange(start, end)
		},
		func(node *memchain.ChainNode, skip, take uint64) []*onyx.Receipt {
			return node.Receipts()[skip : skip+take]
		},
	)
}
