// Package errnocell provides access to the ambient error cell: the
// thread-scoped slot that holds the error number of the most recent failed
// native call on the current OS thread.
//
// Cells are per OS thread, not per goroutine. Callers must hold
// runtime.LockOSThread across any Load/Store sequence that is expected to
// observe the same cell.
package errnocell

import "golang.org/x/sys/unix"

// Cell is an ambient error cell.
type Cell interface {
	// Load returns the error number currently held by the calling
	// thread's cell.
	Load() unix.Errno

	// Store replaces the calling thread's cell with e.
	Store(e unix.Errno)
}

// Default returns the process's ambient error cell.
//
// When cgo is available on a supported platform this is the C library's
// errno, which is what foreign code sharing the process observes. Otherwise
// it is a Table shared by the whole process.
func Default() Cell {
	return defaultCell
}
