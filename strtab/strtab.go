// Package strtab stores string arrays as indices into a pooled string table,
// so equal strings share one entry.
package strtab

import (
	"iter"

	"github.com/emirpasic/gods/maps/hashbidimap"

	"github.com/wippyai/imath-bind/array"
	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/internal/seq"
	"github.com/wippyai/imath-bind/task"
)

// Index identifies a string in a Table.
type Index uint32

// Table interns strings. Entries are never removed, so an Index stays valid
// for the life of the table.
type Table struct {
	ids  *hashbidimap.Map // string <-> Index
	next Index
}

// NewTable returns a table holding only the empty string, at index 0.
func NewTable() *Table {
	t := &Table{ids: hashbidimap.New()}
	t.Intern("")
	return t
}

// Intern returns the index of s, adding it when new.
func (t *Table) Intern(s string) Index {
	if id, ok := t.Lookup(s); ok {
		return id
	}
	id := t.next
	t.ids.Put(s, id)
	t.next++
	return id
}

// Lookup returns the index of s without adding it.
func (t *Table) Lookup(s string) (Index, bool) {
	v, ok := t.ids.Get(s)
	if !ok {
		return 0, false
	}
	return v.(Index), true
}

// String returns the string stored at id.
func (t *Table) String(id Index) (string, bool) {
	k, ok := t.ids.GetKey(id)
	if !ok {
		return "", false
	}
	return k.(string), true
}

// Len returns the number of distinct strings.
func (t *Table) Len() int { return t.ids.Size() }

func (t *Table) mustString(id Index) string {
	s, ok := t.String(id)
	if !ok {
		panic(errors.InvalidValue(errors.PhaseIndex, "string table has no entry %d", id))
	}
	return s
}

// Array is a fixed-length array of strings backed by a Table.
type Array struct {
	table *Table
	ids   *array.FixedArray[Index]
}

// New returns an array of n empty strings.
func New(n int) (*Array, error) {
	ids, err := array.New[Index](n)
	if err != nil {
		return nil, err
	}
	return &Array{table: NewTable(), ids: ids}, nil
}

// Filled returns an array of n copies of s.
func Filled(n int, s string) (*Array, error) {
	t := NewTable()
	ids, err := array.Filled(n, t.Intern(s))
	if err != nil {
		return nil, err
	}
	return &Array{table: t, ids: ids}, nil
}

// FromStrings returns an array holding items.
func FromStrings(items []string) *Array {
	t := NewTable()
	ids := make([]Index, len(items))
	for i, s := range items {
		ids[i] = t.Intern(s)
	}
	return &Array{table: t, ids: array.FromSlice(ids)}
}

// SetPool binds the index storage to p for bulk comparisons.
func (a *Array) SetPool(p *task.Pool) { a.ids.SetPool(p) }

// Table returns the backing table.
func (a *Array) Table() *Table { return a.table }

// Len returns the number of elements.
func (a *Array) Len() int { return a.ids.Len() }

// Get returns the string at i; negative i counts from the end.
func (a *Array) Get(i int) (string, error) {
	id, err := a.ids.Get(i)
	if err != nil {
		return "", err
	}
	return a.table.mustString(id), nil
}

// Set stores s at i; negative i counts from the end.
func (a *Array) Set(i int, s string) error {
	if _, err := a.ids.Get(i); err != nil {
		return err
	}
	return a.ids.Set(i, a.table.Intern(s))
}

// Range returns a new array with the elements of r. It shares the table.
func (a *Array) Range(r seq.Range) *Array {
	return &Array{table: a.table, ids: a.ids.Range(r)}
}

// SetRange copies the strings of src into the positions of r.
func (a *Array) SetRange(r seq.Range, src *Array) error {
	if src.table == a.table {
		return a.ids.SetRange(r, src.ids)
	}
	ids := make([]Index, src.Len())
	for i, id := range src.ids.Items() {
		ids[i] = a.table.Intern(src.table.mustString(id))
	}
	return a.ids.SetRange(r, array.FromSlice(ids))
}

// FillRange stores s at every position of r.
func (a *Array) FillRange(r seq.Range, s string) {
	a.ids.FillRange(r, a.table.Intern(s))
}

// Values iterates the strings in index order.
func (a *Array) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for id := range a.ids.Values() {
			if !yield(a.table.mustString(id)) {
				return
			}
		}
	}
}

// Strings returns a copy of the elements.
func (a *Array) Strings() []string {
	out := make([]string, 0, a.Len())
	for s := range a.Values() {
		out = append(out, s)
	}
	return out
}

// CompareElem returns the equality mask against s. Only CmpEq and CmpNe
// exist for strings.
func (a *Array) CompareElem(c array.Cmp, s string) (*array.FixedArray[array.Mask], error) {
	if c.Ordered() {
		return nil, errors.Unsupported(errors.PhaseOperator, "string arrays have no ordering")
	}
	id, known := a.table.Lookup(s)
	want := c == array.CmpEq
	return array.Map(a.ids, func(x Index) array.Mask {
		same := known && x == id
		return bmask(same == want)
	}), nil
}

// Compare returns the equality mask against another string array of the
// same length.
func (a *Array) Compare(c array.Cmp, o *Array) (*array.FixedArray[array.Mask], error) {
	if c.Ordered() {
		return nil, errors.Unsupported(errors.PhaseOperator, "string arrays have no ordering")
	}
	want := c == array.CmpEq
	return array.Zip(a.ids, o.ids, func(x, y Index) (array.Mask, error) {
		var same bool
		if a.table == o.table {
			same = x == y
		} else {
			same = a.table.mustString(x) == o.table.mustString(y)
		}
		return bmask(same == want), nil
	})
}

func bmask(b bool) array.Mask {
	if b {
		return 1
	}
	return 0
}
