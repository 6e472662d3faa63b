package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a queried entity is not present in the
	// store. Point "does it exist" queries convert it into a typed absence;
	// it only escapes to callers where interface methods document it.
	ErrNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned by the write path when inserting an entity
	// under a key that is already populated.
	ErrAlreadyExists = errors.New("key already exists")

	// ErrStoreUnavailable is returned when the persistent store cannot
	// produce a read snapshot.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStateAtBlockPruned is the sentinel matched by
	// StateAtBlockPrunedError. A changeset query at or below the recorded
	// prune checkpoint must fail with it rather than return an empty
	// changeset, since an empty result would be indistinguishable from
	// "nothing changed".
	ErrStateAtBlockPruned = errors.New("state at block pruned")

	// ErrBodyIndicesNotFound is the sentinel matched by
	// BodyIndicesNotFoundError. Missing body indices are fatal to range
	// reconstruction because transaction and receipt counting cannot
	// proceed without them.
	ErrBodyIndicesNotFound = errors.New("block body indices not found")

	// ErrInconsistentChain is returned when the captured in-memory chain and
	// the store snapshot disagree about the block hash at the anchor's
	// parent height. This is a hard invariant violation; neither side is
	// silently preferred.
	ErrInconsistentChain = errors.New("in-memory chain inconsistent with store")
)

// StateAtBlockPrunedError indicates that state history for the given block
// has been pruned from the store.
type StateAtBlockPrunedError struct {
	Block uint64
}

func (e StateAtBlockPrunedError) Error() string {
	return fmt.Sprintf("state history at block %d has been pruned", e.Block)
}

func (e StateAtBlockPrunedError) Is(target error) bool {
	return target == ErrStateAtBlockPruned
}

// NewStateAtBlockPrunedError constructs a StateAtBlockPrunedError for the
// given block.
func NewStateAtBlockPrunedError(block uint64) error {
	return StateAtBlockPrunedError{Block: block}
}

// BodyIndicesNotFoundError indicates that the body indices for the given
// block could not be resolved on either side of the memory/storage boundary.
type BodyIndicesNotFoundError struct {
	Block uint64
}

func (e BodyIndicesNotFoundError) Error() string {
	return fmt.Sprintf("body indices not found for block %d", e.Block)
}

func (e BodyIndicesNotFoundError) Is(target error) bool {
	return target == ErrBodyIndicesNotFound
}

// NewBodyIndicesNotFoundError constructs a BodyIndicesNotFoundError for the
// given block.
func NewBodyIndicesNotFoundError(block uint64) error {
	return BodyIndicesNotFoundError{Block: block}
}
