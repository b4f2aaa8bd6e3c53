package wasmhost

import (
	"sync"

	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
)

// Handle names a host value held for a guest. Handle 0 is None.
type Handle uint32

// Table keeps the host values a guest refers to by handle. Dropped slots are
// reused.
type Table struct {
	mu       sync.RWMutex
	entries  []slot
	freeList []Handle
	closed   bool
}

type slot struct {
	value host.Value
	valid bool
}

// NewTable creates an empty handle table.
func NewTable() *Table {
	return &Table{
		entries:  make([]slot, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Insert stores v and returns its handle. None is always handle 0.
func (t *Table) Insert(v host.Value) (Handle, error) {
	if v == nil {
		return 0, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, errors.InvalidValue(errors.PhaseCall, "handle table closed")
	}
	s := slot{value: v, valid: true}
	if n := len(t.freeList); n > 0 {
		h := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = s
		return h, nil
	}
	t.entries = append(t.entries, s)
	return Handle(len(t.entries)), nil
}

// Get returns the value of h. Handle 0 yields None.
func (t *Table) Get(h Handle) (host.Value, error) {
	if h == 0 {
		return nil, nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return nil, errors.OutOfBounds(errors.PhaseCall, []string{"handle"}, int(h), len(t.entries))
	}
	return t.entries[idx].value, nil
}

// Drop releases h. Dropping None or an unknown handle is a no-op.
func (t *Table) Drop(h Handle) bool {
	if h == 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return false
	}
	t.entries[idx] = slot{}
	t.freeList = append(t.freeList, h)
	return true
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) - len(t.freeList)
}

// Close drops every handle and rejects further inserts.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.entries = nil
	t.freeList = nil
}
