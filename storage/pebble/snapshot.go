package pebble

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
	"github.com/onyxchain/onyx/storage/operation"
)

// snapshot is a transactionally consistent read view of the store, backed by
// a pebble snapshot. It observes no writes performed after it was opened.
type snapshot struct {
	store  *Store
	snap   *pebble.Snapshot
	reader storage.Reader
}

var _ storage.Snapshot = (*snapshot)(nil)

func (s *snapshot) HeaderByNumber(number uint64) (*onyx.Header, error) {
	var header onyx.Header
	err := operation.RetrieveHeader(s.reader, number, &header)
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (s *snapshot) HeaderByHash(hash onyx.Hash) (*onyx.Header, error) {
	// The cache is shared across snapshots, so it may hold headers flushed
	// after this snapshot was opened. Resolving the hash through the
	// snapshot's own index first keeps existence snapshot-scoped; the cache
	// then only short-cuts the header read itself.
	var number uint64
	err := operation.LookupBlockNumber(s.reader, hash, &number)
	if err != nil {
		return nil, err
	}
	header, err := s.store.headersByHash.Get(s.reader, hash)
	if err != nil {
		return nil, err
	}
	return header.(*onyx.Header), nil
}

func (s *snapshot) HeadersByRange(start, end uint64, pred func(*onyx.Header) bool) ([]*onyx.Header, error) {
	if start > end {
		return nil, nil
	}
	headers := make([]*onyx.Header, 0, end-start+1)
	expected := start
	err := operation.IterateHeaders(s.reader, start, end, func(header *onyx.Header) bool {
		// A gap means the tail of the range is not flushed; stop short.
		if header.Number != expected {
			return false
		}
		if pred != nil && !pred(header) {
			return false
		}
		headers = append(headers, header)
		expected++
		return true
	})
	if err != nil {
		return nil, err
	}
	return headers, nil
}

func (s *snapshot) BlockNumberByHash(hash onyx.Hash) (uint64, error) {
	var number uint64
	err := operation.LookupBlockNumber(s.reader, hash, &number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (s *snapshot) BlockHashByNumber(number uint64) (onyx.Hash, error) {
	header, err := s.HeaderByNumber(number)
	if err != nil {
		return onyx.ZeroHash, err
	}
	return header.ID(), nil
}

func (s *snapshot) BlockHashesByRange(start, end uint64, pred func(onyx.Hash) bool) ([]onyx.Hash, error) {
	headers, err := s.HeadersByRange(start, end, nil)
	if err != nil {
		return nil, err
	}
	hashes := make([]onyx.Hash, 0, len(headers))
	for _, header := range headers {
		hash := header.ID()
		if pred != nil && !pred(hash) {
			break
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

func (s *snapshot) LastBlockNumber() (uint64, error) {
	var number uint64
	err := operation.RetrieveLastBlockNumber(s.reader, &number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (s *snapshot) BlockByNumber(number uint64) (*onyx.Block, error) {
	header, err := s.HeaderByNumber(number)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactionsFor(number)
	if err != nil {
		return nil, err
	}
	return &onyx.Block{Header: header, Transactions: txs}, nil
}

func (s *snapshot) BlockByHash(hash onyx.Hash) (*onyx.Block, error) {
	number, err := s.BlockNumberByHash(hash)
	if err != nil {
		return nil, err
	}
	return s.BlockByNumber(number)
}

func (s *snapshot) RecoveredBlockByNumber(number uint64) (*onyx.RecoveredBlock, error) {
	block, err := s.BlockByNumber(number)
	if err != nil {
		return nil, err
	}
	indices, err := s.BodyIndices(number)
	if err != nil {
		return nil, err
	}
	senders, err := s.SendersByRange(indices.FirstTxNum, indices.LastTxNum())
	if err != nil {
		return nil, err
	}
	if indices.TxCount == 0 {
		senders = nil
	}
	return &onyx.RecoveredBlock{Block: block, Senders: senders}, nil
}

func (s *snapshot) RecoveredBlockByHash(hash onyx.Hash) (*onyx.RecoveredBlock, error) {
	number, err := s.BlockNumberByHash(hash)
	if err != nil {
		return nil, err
	}
	return s.RecoveredBlockByNumber(number)
}

func (s *snapshot) BlocksByRange(start, end uint64, pred func(*onyx.Block) bool) ([]*onyx.Block, error) {
	if start > end {
		return nil, nil
	}
	blocks := make([]*onyx.Block, 0, end-start+1)
	for number := start; number <= end; number++ {
		block, err := s.BlockByNumber(number)
		if errors.Is(err, storage.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		if pred != nil && !pred(block) {
			break
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func (s *snapshot) RecoveredBlocksByRange(start, end uint64, pred func(*onyx.RecoveredBlock) bool) ([]*onyx.RecoveredBlock, error) {
	if start > end {
		return nil, nil
	}
	blocks := make([]*onyx.RecoveredBlock, 0, end-start+1)
	for number := start; number <= end; number++ {
		block, err := s.RecoveredBlockByNumber(number)
		if errors.Is(err, storage.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		if pred != nil && !pred(block) {
			break
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func (s *snapshot) BodyIndices(number uint64) (*onyx.BlockBodyIndices, error) {
	var indices onyx.BlockBodyIndices
	err := operation.RetrieveBodyIndices(s.reader, number, &indices)
	if err != nil {
		return nil, err
	}
	return &indices, nil
}

func (s *snapshot) TransactionByNumber(txNum uint64) (*onyx.Transaction, error) {
	var tx onyx.Transaction
	err := operation.RetrieveTransaction(s.reader, txNum, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *snapshot) TransactionByHash(hash onyx.Hash) (*onyx.Transaction, error) {
	txNum, err := s.TransactionNumberByHash(hash)
	if err != nil {
		return nil, err
	}
	return s.TransactionByNumber(txNum)
}

func (s *snapshot) TransactionNumberByHash(hash onyx.Hash) (uint64, error) {
	var txNum uint64
	err := operation.LookupTransactionNumber(s.reader, hash, &txNum)
	if err != nil {
		return 0, err
	}
	return txNum, nil
}

// TransactionBlock locates the block containing the given chain-wide
// transaction number by binary-searching the dense block number space.
func (s *snapshot) TransactionBlock(txNum uint64) (uint64, error) {
	last, err := s.LastBlockNumber()
	if err != nil {
		return 0, err
	}

	lastIndices, err := s.BodyIndices(last)
	if err != nil {
		return 0, err
	}
	if txNum >= lastIndices.NextTxNum() {
		return 0, storage.ErrNotFound
	}

	// Find the lowest block whose indices end beyond txNum; by the no-gap
	// invariant of the transaction number space, that block contains it
	// unless it is empty, in which case scanning forward finds the owner.
	lo, hi := uint64(0), last
	for lo < hi {
		mid := lo + (hi-lo)/2
		indices, err := s.BodyIndices(mid)
		if err != nil {
			return 0, err
		}
		if indices.NextTxNum() > txNum {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	indices, err := s.BodyIndices(lo)
	if err != nil {
		return 0, err
	}
	if !indices.Contains(txNum) {
		return 0, storage.ErrNotFound
	}
	return lo, nil
}

func (s *snapshot) TransactionsByBlock(number uint64) ([]*onyx.Transaction, error) {
	return s.transactionsFor(number)
}

func (s *snapshot) TransactionsByRange(start, end uint64) ([]*onyx.Transaction, error) {
	if start > end {
		return nil, nil
	}
	txs := make([]*onyx.Transaction, 0, end-start+1)
	err := operation.IterateTransactions(s.reader, start, end, func(tx *onyx.Transaction) bool {
		txs = append(txs, tx)
		return true
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *snapshot) SendersByRange(start, end uint64) ([]onyx.Address, error) {
	if start > end {
		return nil, nil
	}
	senders := make([]onyx.Address, 0, end-start+1)
	err := operation.IterateSenders(s.reader, start, end, func(sender onyx.Address) bool {
		senders = append(senders, sender)
		return true
	})
	if err != nil {
		return nil, err
	}
	return senders, nil
}

func (s *snapshot) ReceiptByTxNumber(txNum uint64) (*onyx.Receipt, error) {
	var receipt onyx.Receipt
	err := operation.RetrieveReceipt(s.reader, txNum, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (s *snapshot) ReceiptByTxHash(hash onyx.Hash) (*onyx.Receipt, error) {
	txNum, err := s.TransactionNumberByHash(hash)
	if err != nil {
		return nil, err
	}
	return s.ReceiptByTxNumber(txNum)
}

func (s *snapshot) ReceiptsByBlock(number uint64) ([]*onyx.Receipt, error) {
	indices, err := s.BodyIndices(number)
	if err != nil {
		return nil, err
	}
	if indices.TxCount == 0 {
		return nil, nil
	}
	return s.ReceiptsByRange(indices.FirstTxNum, indices.LastTxNum())
}

func (s *snapshot) ReceiptsByRange(start, end uint64) ([]*onyx.Receipt, error) {
	if start > end {
		return nil, nil
	}
	receipts := make([]*onyx.Receipt, 0, end-start+1)
	err := operation.IterateReceipts(s.reader, start, end, func(receipt *onyx.Receipt) bool {
		receipts = append(receipts, receipt)
		return true
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (s *snapshot) AccountChanges(number uint64) ([]onyx.AccountChange, error) {
	var changes []onyx.AccountChange
	err := operation.RetrieveAccountChanges(s.reader, number, &changes)
	if err != nil {
		return nil, err
	}
	return changes, nil
}

func (s *snapshot) StorageChanges(number uint64) ([]onyx.StorageChange, error) {
	var changes []onyx.StorageChange
	err := operation.RetrieveStorageChanges(s.reader, number, &changes)
	if err != nil {
		return nil, err
	}
	return changes, nil
}

func (s *snapshot) PruneCheckpoint(segment storage.PruneSegment) (uint64, bool, error) {
	var number uint64
	err := operation.RetrievePruneCheckpoint(s.reader, segment, &number)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return number, true, nil
}

func (s *snapshot) Close() error {
	err := s.snap.Close()
	if err != nil {
		return fmt.Errorf("could not close store snapshot: %w", err)
	}
	return nil
}

// transactionsFor loads the transactions of the given flushed block.
func (s *snapshot) transactionsFor(number uint64) ([]*onyx.Transaction, error) {
	indices, err := s.BodyIndices(number)
	if err != nil {
		return nil, err
	}
	if indices.TxCount == 0 {
		return nil, nil
	}
	txs, err := s.TransactionsByRange(indices.FirstTxNum, indices.LastTxNum())
	if err != nil {
		return nil, err
	}
	if uint64(len(txs)) != indices.TxCount {
		return nil, fmt.Errorf("transaction count mismatch for block %d: indices %d, stored %d",
			number, indices.TxCount, len(txs))
	}
	return txs, nil
}
