package operation

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
)

// InsertAccountChanges stores the account changeset of a block. An empty
// changeset is stored explicitly so that "block flushed, nothing changed" is
// distinguishable from "block not flushed".
func InsertAccountChanges(w storage.Writer, number uint64, changes []onyx.AccountChange) error {
	return upsert(w, makePrefix(codeAccountChanges, number), &changes)
}

// RetrieveAccountChanges retrieves the account changeset of a block.
func RetrieveAccountChanges(r storage.Reader, number uint64, changes *[]onyx.AccountChange) error {
	return retrieve(r, makePrefix(codeAccountChanges, number), changes)
}

// InsertStorageChanges stores the storage changeset of a block.
func InsertStorageChanges(w storage.Writer, number uint64, changes []onyx.StorageChange) error {
	return upsert(w, makePrefix(codeStorageChanges, number), &changes)
}

// RetrieveStorageChanges retrieves the storage changeset of a block.
func RetrieveStorageChanges(r storage.Reader, number uint64, changes *[]onyx.StorageChange) error {
	return retrieve(r, makePrefix(codeStorageChanges, number), changes)
}

// InsertPruneCheckpoint records the highest pruned block number for a history
// segment.
func InsertPruneCheckpoint(w storage.Writer, segment storage.PruneSegment, number uint64) error {
	return upsert(w, makePrefix(codePruneCheckpoint, uint8(segment)), number)
}

// RetrievePruneCheckpoint retrieves the highest pruned block number for a
// history segment.
func RetrievePruneCheckpoint(r storage.Reader, segment storage.PruneSegment, number *uint64) error {
	return retrieve(r, makePrefix(codePruneCheckpoint, uint8(segment)), number)
}

// RemoveAccountChanges deletes the account changeset of a block. Used by the
// pruning path together with InsertPruneCheckpoint.
func RemoveAccountChanges(w storage.Writer, number uint64) error {
	return remove(w, makePrefix(codeAccountChanges, number))
}

// RemoveStorageChanges deletes the storage changeset of a block.
func RemoveStorageChanges(w storage.Writer, number uint64) error {
	return remove(w, makePrefix(codeStorageChanges, number))
}
