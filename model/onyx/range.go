package onyx

import "fmt"

// Range is an inclusive interval over block numbers or chain-wide transaction
// numbers. An open-ended range has no upper bound; the query layer resolves it
// to the head of whatever number space it is applied to.
type Range struct {
	start uint64
	end   uint64
	open  bool
}

// NewRange returns the closed interval [start, end].
func NewRange(start, end uint64) Range {
	return Range{start: start, end: end}
}

// OpenRange returns the interval [start, head], where head is resolved by the
// query evaluating the range.
func OpenRange(start uint64) Range {
	return Range{start: start, open: true}
}

// Start returns the inclusive lower bound.
func (r Range) Start() uint64 {
	return r.start
}

// End returns the inclusive upper bound and false when the range is
// open-ended.
func (r Range) End() (uint64, bool) {
	return r.end, !r.open
}

// Bind resolves an open-ended range against the given head, returning a
// closed range. Closed ranges are returned unchanged.
func (r Range) Bind(head uint64) Range {
	if r.open {
		return Range{start: r.start, end: head}
	}
	return r
}

// Empty reports whether a closed range contains no elements. Open-ended
// ranges are never empty before binding.
func (r Range) Empty() bool {
	return !r.open && r.start > r.end
}

// Len returns the number of elements in a closed, non-empty range.
func (r Range) Len() uint64 {
	if r.open || r.Empty() {
		return 0
	}
	return r.end - r.start + 1
}

func (r Range) String() string {
	if r.open {
		return fmt.Sprintf("[%d, head]", r.start)
	}
	return fmt.Sprintf("[%d, %d]", r.start, r.end)
}
