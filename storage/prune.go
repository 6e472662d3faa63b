package storage

// PruneSegment names a class of historical data that the store may prune
// independently of the chain itself.
type PruneSegment int

const (
	// PruneSegmentAccountHistory covers account changesets.
	PruneSegmentAccountHistory PruneSegment = iota + 1
	// PruneSegmentStorageHistory covers storage changesets.
	PruneSegmentStorageHistory
)

func (s PruneSegment) String() string {
	switch s {
	case PruneSegmentAccountHistory:
		return "account-history"
	case PruneSegmentStorageHistory:
		return "storage-history"
	default:
		return "unknown"
	}
}
