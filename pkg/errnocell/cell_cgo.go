//go:build cgo && (linux || darwin)

package errnocell

/*
#include <errno.h>

static int posixcall_errno_load(void) {
	return errno;
}

static void posixcall_errno_store(int e) {
	errno = e;
}
*/
import "C"

import "golang.org/x/sys/unix"

var defaultCell Cell = libcErrno{}

// libcErrno is the C library's thread-local errno.
//
// Calls are made in the single-value cgo form, which neither clears nor
// reads errno on the way in or out.
type libcErrno struct{}

// Load implements Cell.Load.
func (libcErrno) Load() unix.Errno {
	return unix.Errno(C.posixcall_errno_load())
}

// Store implements Cell.Store.
func (libcErrno) Store(e unix.Errno) {
	C.posixcall_errno_store(C.int(e))
}

// String implements fmt.Stringer.
func (libcErrno) String() string {
	return "libc errno"
}
