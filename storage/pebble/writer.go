package pebble

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
	"github.com/onyxchain/onyx/storage/operation"
)

// AppendBlocks flushes a contiguous run of blocks, together with their
// receipts and state diffs, to the store in a single atomic batch. The run
// must extend the flushed chain directly: the first block must be number 0 on
// an empty store, or last+1 otherwise.
//
// Transactions are assigned chain-wide numbers continuing from the flushed
// transaction number space. Changesets are derived from the diffs' prior
// values, and the plain state is advanced to the diffs' post values.
func (s *Store) AppendBlocks(blocks []*onyx.RecoveredBlock, receipts [][]*onyx.Receipt, diffs []*onyx.StateDiff) error {
	if len(blocks) == 0 {
		return nil
	}
	if len(receipts) != len(blocks) || len(diffs) != len(blocks) {
		return fmt.Errorf("mismatched flush inputs: %d blocks, %d receipt sets, %d diffs",
			len(blocks), len(receipts), len(diffs))
	}

	reader := dbReader{db: s.db}
	first := blocks[0].Block.Header.Number

	var txNum uint64
	var last uint64
	err := operation.RetrieveLastBlockNumber(reader, &last)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if first != 0 {
			return fmt.Errorf("cannot flush block %d onto an empty store", first)
		}
		txNum = 0
	case err != nil:
		return fmt.Errorf("could not resolve flushed head: %w", err)
	default:
		if first != last+1 {
			return fmt.Errorf("cannot flush block %d onto flushed head %d", first, last)
		}
		var indices onyx.BlockBodyIndices
		err = operation.RetrieveBodyIndices(reader, last, &indices)
		if err != nil {
			return fmt.Errorf("could not resolve body indices of flushed head %d: %w", last, err)
		}
		txNum = indices.NextTxNum()
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	w := batchWriter{batch: batch}

	var txCount uint64
	for i, block := range blocks {
		header := block.Block.Header
		txs := block.Block.Transactions
		if header.Number != first+uint64(i) {
			return fmt.Errorf("non-contiguous flush: block %d at offset %d", header.Number, i)
		}
		if len(block.Senders) != len(txs) {
			return fmt.Errorf("block %d has %d transactions but %d senders",
				header.Number, len(txs), len(block.Senders))
		}
		if len(receipts[i]) != len(txs) {
			return fmt.Errorf("block %d has %d transactions but %d receipts",
				header.Number, len(txs), len(receipts[i]))
		}

		err = operation.InsertHeader(w, header.ID(), header)
		if err != nil {
			return fmt.Errorf("could not insert header %d: %w", header.Number, err)
		}

		indices := onyx.BlockBodyIndices{FirstTxNum: txNum, TxCount: uint64(len(txs))}
		err = operation.InsertBodyIndices(w, header.Number, &indices)
		if err != nil {
			return fmt.Errorf("could not insert body indices %d: %w", header.Number, err)
		}

		for j, tx := range txs {
			err = operation.InsertTransaction(w, txNum, tx)
			if err != nil {
				return fmt.Errorf("could not insert transaction %d: %w", txNum, err)
			}
			err = operation.InsertSender(w, txNum, block.Senders[j])
			if err != nil {
				return fmt.Errorf("could not insert sender %d: %w", txNum, err)
			}
			err = operation.InsertReceipt(w, txNum, receipts[i][j])
			if err != nil {
				return fmt.Errorf("could not insert receipt %d: %w", txNum, err)
			}
			txNum++
			txCount++
		}

		err = s.applyDiff(w, header.Number, diffs[i])
		if err != nil {
			return fmt.Errorf("could not apply state diff %d: %w", header.Number, err)
		}
	}

	lastFlushed := blocks[len(blocks)-1].Block.Header.Number
	err = operation.InsertLastBlockNumber(w, lastFlushed)
	if err != nil {
		return fmt.Errorf("could not advance flushed head: %w", err)
	}

	err = batch.Commit(pebble.Sync)
	if err != nil {
		return fmt.Errorf("could not commit flush batch: %w", err)
	}

	s.log.Debug().
		Uint64("first_block", first).
		Uint64("last_block", lastFlushed).
		Uint64("transactions", txCount).
		Msg("blocks flushed to store")
	return nil
}

// applyDiff records the block's changesets and advances the plain state to
// the post values.
func (s *Store) applyDiff(w storage.Writer, number uint64, diff *onyx.StateDiff) error {
	if diff == nil {
		diff = &onyx.StateDiff{}
	}

	// Empty changesets are stored explicitly so that "block flushed, nothing
	// changed" and "block not flushed" stay distinguishable.
	err := operation.InsertAccountChanges(w, number, diff.AccountChanges)
	if err != nil {
		return fmt.Errorf("could not insert account changes: %w", err)
	}
	err = operation.InsertStorageChanges(w, number, diff.StorageChanges)
	if err != nil {
		return fmt.Errorf("could not insert storage changes: %w", err)
	}

	for addr, account := range diff.PostAccounts {
		err = operation.UpsertAccount(w, addr, account)
		if err != nil {
			return fmt.Errorf("could not upsert account %x: %w", addr, err)
		}
	}
	for addr, slots := range diff.PostStorage {
		for key, value := range slots {
			err = operation.UpsertStorageSlot(w, addr, key, value)
			if err != nil {
				return fmt.Errorf("could not upsert storage slot %x/%x: %w", addr, key, err)
			}
		}
	}
	return nil
}

// PruneHistory drops the changesets of the given segment for all blocks up to
// and including upTo, and records the checkpoint. State rewinds to pruned
// blocks will fail afterwards.
func (s *Store) PruneHistory(segment storage.PruneSegment, upTo uint64) error {
	reader := dbReader{db: s.db}

	var last uint64
	err := operation.RetrieveLastBlockNumber(reader, &last)
	if err != nil {
		return fmt.Errorf("could not resolve flushed head: %w", err)
	}
	if upTo >= last {
		return fmt.Errorf("cannot prune up to block %d at flushed head %d", upTo, last)
	}

	from := uint64(0)
	var checkpoint uint64
	err = operation.RetrievePruneCheckpoint(reader, segment, &checkpoint)
	if err == nil {
		from = checkpoint + 1
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("could not resolve prune checkpoint: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	w := batchWriter{batch: batch}

	for number := from; number <= upTo; number++ {
		switch segment {
		case storage.PruneSegmentAccountHistory:
			err = operation.RemoveAccountChanges(w, number)
		case storage.PruneSegmentStorageHistory:
			err = operation.RemoveStorageChanges(w, number)
		default:
			return fmt.Errorf("unknown prune segment %d", segment)
		}
		if err != nil {
			return fmt.Errorf("could not remove changeset %d: %w", number, err)
		}
	}

	err = operation.InsertPruneCheckpoint(w, segment, upTo)
	if err != nil {
		return fmt.Errorf("could not record prune checkpoint: %w", err)
	}

	err = batch.Commit(pebble.Sync)
	if err != nil {
		return fmt.Errorf("could not commit prune batch: %w", err)
	}

	s.log.Info().
		Str("segment", segment.String()).
		Uint64("up_to", upTo).
		Msg("history pruned")
	return nil
}
