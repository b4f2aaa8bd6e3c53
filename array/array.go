// Package array implements fixed-length homogeneous arrays with host
// sequence semantics and elementwise arithmetic driven by a per-element
// capability descriptor.
//
// Arrays own their storage. Slicing copies. Nothing here is synchronised:
// concurrent mutation and reads of one array are the caller's problem.
package array

import (
	"iter"
	"sync"
	"unsafe"

	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/internal/seq"
	"github.com/wippyai/imath-bind/task"
)

// FixedArray is a contiguous array whose length is set at construction.
// Bulk work on it runs on its pool; arrays derived from it inherit the pool.
type FixedArray[T any] struct {
	data []T
	pool *task.Pool
}

// MaxBytes bounds the storage of a single array.
const MaxBytes = 1 << 32

// New returns an array of n zero elements.
func New[T any](n int) (*FixedArray[T], error) {
	if n < 0 {
		return nil, errors.InvalidValue(errors.PhaseConstruct, "array length must be non-negative, got %d", n)
	}
	var zero T
	if size := uint64(unsafe.Sizeof(zero)); size > 0 && uint64(n) > MaxBytes/size {
		return nil, errors.InvalidValue(errors.PhaseConstruct, "array length %d exceeds the %d byte limit", n, MaxBytes)
	}
	return &FixedArray[T]{data: make([]T, n)}, nil
}

// Filled returns an array of n copies of v.
func Filled[T any](n int, v T) (*FixedArray[T], error) {
	a, err := New[T](n)
	if err != nil {
		return nil, err
	}
	for i := range a.data {
		a.data[i] = v
	}
	return a, nil
}

// FromSlice returns an array holding a copy of items.
func FromSlice[T any](items []T) *FixedArray[T] {
	data := make([]T, len(items))
	copy(data, items)
	return &FixedArray[T]{data: data}
}

// Len returns the number of elements.
func (a *FixedArray[T]) Len() int { return len(a.data) }

// Items returns the backing storage. Writes through it are visible in a.
func (a *FixedArray[T]) Items() []T { return a.data }

// Clone returns an independent copy.
func (a *FixedArray[T]) Clone() *FixedArray[T] {
	out := FromSlice(a.data)
	out.pool = a.pool
	return out
}

// Pool returns the pool bulk work on a runs on, task.Default when unset.
func (a *FixedArray[T]) Pool() *task.Pool {
	if a.pool == nil {
		return task.Default()
	}
	return a.pool
}

// SetPool binds a to p. A nil p falls back to task.Default.
func (a *FixedArray[T]) SetPool(p *task.Pool) { a.pool = p }

// Get returns the element at i; negative i counts from the end.
func (a *FixedArray[T]) Get(i int) (T, error) {
	idx, err := seq.Index("array", i, len(a.data))
	if err != nil {
		var zero T
		return zero, err
	}
	return a.data[idx], nil
}

// Set stores v at i; negative i counts from the end.
func (a *FixedArray[T]) Set(i int, v T) error {
	idx, err := seq.Index("array", i, len(a.data))
	if err != nil {
		return err
	}
	a.data[idx] = v
	return nil
}

// Slice returns a new array with the elements the slice visits. Nil bounds
// take their defaults.
func (a *FixedArray[T]) Slice(start, stop, step *int) (*FixedArray[T], error) {
	r, err := seq.Indices(start, stop, step, len(a.data))
	if err != nil {
		return nil, err
	}
	return a.Range(r), nil
}

// Range returns a new array with the elements of r.
func (a *FixedArray[T]) Range(r seq.Range) *FixedArray[T] {
	out := make([]T, r.Count)
	for i := range out {
		out[i] = a.data[r.Index(i)]
	}
	return &FixedArray[T]{data: out, pool: a.pool}
}

// SetRange copies src into the positions of r. The lengths must match.
func (a *FixedArray[T]) SetRange(r seq.Range, src *FixedArray[T]) error {
	if src.Len() != r.Count {
		return errors.LengthMismatch(errors.PhaseIndex, r.Count, src.Len())
	}
	// src may alias a
	items := src.data
	if src == a {
		items = append([]T(nil), src.data...)
	}
	for i, v := range items {
		a.data[r.Index(i)] = v
	}
	return nil
}

// FillRange stores v at every position of r.
func (a *FixedArray[T]) FillRange(r seq.Range, v T) {
	for i := range r.Count {
		a.data[r.Index(i)] = v
	}
}

// Select returns the elements of a whose mask entry is non-zero. The mask
// must be as long as a.
func (a *FixedArray[T]) Select(m *FixedArray[Mask]) (*FixedArray[T], error) {
	if m.Len() != len(a.data) {
		return nil, errors.LengthMismatch(errors.PhaseIndex, len(a.data), m.Len())
	}
	var out []T
	for i, f := range m.data {
		if f != 0 {
			out = append(out, a.data[i])
		}
	}
	return &FixedArray[T]{data: out, pool: a.pool}, nil
}

// FillMask stores v wherever the mask is non-zero.
func (a *FixedArray[T]) FillMask(m *FixedArray[Mask], v T) error {
	if m.Len() != len(a.data) {
		return errors.LengthMismatch(errors.PhaseIndex, len(a.data), m.Len())
	}
	for i, f := range m.data {
		if f != 0 {
			a.data[i] = v
		}
	}
	return nil
}

// SetMask copies src into the positions where the mask is non-zero. src is
// either as long as a, and read at the same positions, or as long as the
// selection, and read in order.
func (a *FixedArray[T]) SetMask(m *FixedArray[Mask], src *FixedArray[T]) error {
	if m.Len() != len(a.data) {
		return errors.LengthMismatch(errors.PhaseIndex, len(a.data), m.Len())
	}
	// src may alias a
	items := src.data
	if src == a {
		items = append([]T(nil), src.data...)
	}
	if len(items) == len(a.data) {
		for i, f := range m.data {
			if f != 0 {
				a.data[i] = items[i]
			}
		}
		return nil
	}
	selected := 0
	for _, f := range m.data {
		if f != 0 {
			selected++
		}
	}
	if len(items) != selected {
		return errors.LengthMismatch(errors.PhaseIndex, selected, len(items))
	}
	j := 0
	for i, f := range m.data {
		if f != 0 {
			a.data[i] = items[j]
			j++
		}
	}
	return nil
}

// All iterates index/element pairs in index order. Each range over the
// returned sequence starts again from the first element.
func (a *FixedArray[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < len(a.data); i++ {
			if !yield(i, a.data[i]) {
				return
			}
		}
	}
}

// Values iterates the elements in index order.
func (a *FixedArray[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < len(a.data); i++ {
			if !yield(a.data[i]) {
				return
			}
		}
	}
}

// Generate builds an array of n elements from f, splitting the work across
// the default task pool. The error reported is the one at the lowest failing
// index.
func Generate[R any](n int, f func(i int) (R, error)) (*FixedArray[R], error) {
	return GenerateOn(nil, n, f)
}

// GenerateOn is Generate on pool p; the result is bound to p. A nil p uses
// task.Default.
func GenerateOn[R any](p *task.Pool, n int, f func(i int) (R, error)) (*FixedArray[R], error) {
	run := p
	if run == nil {
		run = task.Default()
	}
	out := make([]R, n)
	var (
		mu      sync.Mutex
		first   error
		firstAt = n
	)
	err := run.Dispatch(n, task.Func(func(start, end int) {
		for i := start; i < end; i++ {
			v, err := f(i)
			if err != nil {
				mu.Lock()
				if i < firstAt {
					first, firstAt = err, i
				}
				mu.Unlock()
				return
			}
			out[i] = v
		}
	}))
	if err != nil {
		return nil, err
	}
	if first != nil {
		return nil, first
	}
	return &FixedArray[R]{data: out, pool: p}, nil
}

// Map applies f to every element. A panic in f is re-raised on the calling
// goroutine.
func Map[T, R any](a *FixedArray[T], f func(T) R) *FixedArray[R] {
	out, err := GenerateOn(a.pool, a.Len(), func(i int) (R, error) { return f(a.data[i]), nil })
	if err != nil {
		panic(err)
	}
	return out
}

// MapErr applies f to every element, stopping at the first failure.
func MapErr[T, R any](a *FixedArray[T], f func(T) (R, error)) (*FixedArray[R], error) {
	return GenerateOn(a.pool, a.Len(), func(i int) (R, error) { return f(a.data[i]) })
}

// Zip combines a and b elementwise. The lengths must match.
func Zip[A, B, R any](a *FixedArray[A], b *FixedArray[B], f func(A, B) (R, error)) (*FixedArray[R], error) {
	if err := checkLen(a.Len(), b.Len()); err != nil {
		return nil, err
	}
	return GenerateOn(a.pool, a.Len(), func(i int) (R, error) { return f(a.data[i], b.data[i]) })
}

func checkLen(want, got int) error {
	if want != got {
		return errors.LengthMismatch(errors.PhaseOperator, want, got)
	}
	return nil
}

// Convert returns a new array of a's elements converted by f. It backs the
// explicit construction of one array type from a sibling.
func Convert[T, R any](a *FixedArray[T], f func(T) R) *FixedArray[R] {
	return Map(a, f)
}
