// Package seq implements the host's sequence indexing conventions: negative
// indices count from the end and slices clamp to the sequence bounds.
package seq

import (
	"github.com/wippyai/imath-bind/errors"
)

// Range is a resolved slice over a sequence of known length.
type Range struct {
	Start int
	Step  int
	Count int
}

// Index returns the sequence position of the i-th element of the range.
func (r Range) Index(i int) int {
	return r.Start + i*r.Step
}

// Canonical resolves a possibly negative index against length n.
func Canonical(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// Index resolves i against n, failing with an out-of-bounds error.
func Index(path string, i, n int) (int, error) {
	idx, ok := Canonical(i, n)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseIndex, []string{path}, i, n)
	}
	return idx, nil
}

// Indices resolves optional slice bounds against length n. A nil bound takes
// its default for the direction of step. Out-of-range bounds clamp, so an
// empty result is never an error; only a zero step is rejected.
func Indices(start, stop, step *int, n int) (Range, error) {
	st := 1
	if step != nil {
		st = *step
	}
	if st == 0 {
		return Range{}, errors.InvalidValue(errors.PhaseIndex, "slice step cannot be zero")
	}

	var lo, hi int
	if st > 0 {
		lo, hi = 0, n
	} else {
		lo, hi = n-1, -1
	}

	if start != nil {
		lo = clamp(*start, n, st)
	}
	if stop != nil {
		hi = clamp(*stop, n, st)
	}

	count := 0
	switch {
	case st > 0 && hi > lo:
		count = (hi - lo + st - 1) / st
	case st < 0 && lo > hi:
		count = (lo - hi - st - 1) / -st
	}
	return Range{Start: lo, Step: st, Count: count}, nil
}

func clamp(i, n, step int) int {
	if i < 0 {
		i += n
		if i < 0 {
			if step < 0 {
				return -1
			}
			return 0
		}
		return i
	}
	if i >= n {
		if step < 0 {
			return n - 1
		}
		return n
	}
	return i
}
