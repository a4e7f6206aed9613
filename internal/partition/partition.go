// Package partition splits a closed int64 range into contiguous sub-ranges,
// one per worker slot.
package partition

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/aryankumar/rangeminer/internal/util"
)

// SubRange is a closed interval [Start, End] assigned to one task.
// A sub-range with End < Start is empty and carries no work.
type SubRange struct {
	Index int   `json:"index" yaml:"index"`
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// Empty reports whether the sub-range covers no values
func (r SubRange) Empty() bool {
	return r.End < r.Start
}

// Len returns the number of values in the sub-range.
// The full int64 domain does not fit in a uint64 and reports math.MaxUint64.
func (r SubRange) Len() uint64 {
	if r.Empty() {
		return 0
	}
	n := uint64(r.End) - uint64(r.Start)
	if n == math.MaxUint64 {
		return n
	}
	return n + 1
}

// String renders the sub-range for logs
func (r SubRange) String() string {
	if r.Empty() {
		return fmt.Sprintf("#%d[empty]", r.Index)
	}
	return fmt.Sprintf("#%d[%d..%d]", r.Index, r.Start, r.End)
}

// Split divides [start, end] into exactly n contiguous sub-ranges of
// ceil(span/n) values each, where span = end - start + 1. The last non-empty
// sub-range is clamped to end. When n exceeds span the trailing sub-ranges are
// empty and start at end+1 (or end, if end is math.MaxInt64).
func Split(start, end int64, n int) ([]SubRange, error) {
	if n < 1 {
		return nil, util.NewValidationError("workers", n, "must be at least 1")
	}
	if end < start {
		return nil, util.NewValidationError("end", end, fmt.Sprintf("must not be less than start (%d)", start))
	}

	// maxOffset = span - 1, always representable in uint64.
	maxOffset := uint64(end) - uint64(start)
	reach := taskReach(maxOffset, uint64(n))

	ranges := make([]SubRange, n)
	next := start
	exhausted := false

	for i := 0; i < n; i++ {
		if exhausted {
			ranges[i] = emptyAfter(i, end)
			continue
		}

		remaining := uint64(end) - uint64(next)
		last := end
		if reach < remaining {
			last = int64(uint64(next) + reach)
		}
		ranges[i] = SubRange{Index: i, Start: next, End: last}

		if last == end {
			exhausted = true
			continue
		}
		next = last + 1
	}

	return ranges, nil
}

// taskReach returns ceil((maxOffset+1)/n) - 1, the offset from a sub-range's
// start to its end. It does not overflow when the range spans the whole int64
// domain.
func taskReach(maxOffset, n uint64) uint64 {
	if maxOffset == math.MaxUint64 {
		if n == 1 {
			return math.MaxUint64
		}
		// 2^64 / n, rounded up.
		q, r := bits.Div64(1, 0, n)
		if r != 0 {
			q++
		}
		return q - 1
	}
	span := maxOffset + 1
	q := span / n
	if span%n != 0 {
		q++
	}
	return q - 1
}

func emptyAfter(index int, end int64) SubRange {
	if end == math.MaxInt64 {
		return SubRange{Index: index, Start: end, End: end - 1}
	}
	return SubRange{Index: index, Start: end + 1, End: end}
}

// NonEmpty returns the sub-ranges that carry work, preserving order
func NonEmpty(ranges []SubRange) []SubRange {
	out := make([]SubRange, 0, len(ranges))
	for _, r := range ranges {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}
