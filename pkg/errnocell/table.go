package errnocell

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Table is a pure-Go ambient error cell: one slot per OS thread, keyed by
// the kernel's thread id.
//
// The mutex protects the map only. Each thread reads and writes its own
// slot, so values never leak between live threads.
//
// Slots are not reclaimed when a thread exits. A thread that exits holding a
// non-zero value leaves its slot behind, and a later thread that is given
// the same id starts with that value instead of 0. Store(0) releases the
// calling thread's slot; the posixcall adapter always leaves a thread's
// cell as it found it, so only values stored outside the adapter persist.
type Table struct {
	mu    sync.Mutex
	cells map[int]unix.Errno

	// id returns the calling thread's key.
	id func() int
}

// NewTable returns an empty Table. Every thread's slot starts at 0.
func NewTable() *Table {
	return &Table{cells: make(map[int]unix.Errno), id: threadID}
}

// Load implements Cell.Load.
func (t *Table) Load() unix.Errno {
	id := t.id()
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cells[id]
}

// Store implements Cell.Store.
func (t *Table) Store(e unix.Errno) {
	id := t.id()
	t.mu.Lock()
	defer t.mu.Unlock()
	if e == 0 {
		delete(t.cells, id)
		return
	}
	t.cells[id] = e
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return "thread table"
}
