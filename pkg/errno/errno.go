// Package errno encodes native error numbers into the return value of a
// wrapped system call and decodes them back.
//
// A wrapped call returns either its native result or the negation of the
// errno that the failing call produced, expressed in the call's own result
// type. Every result domain in use (int, ssize_t and pointer) reserves the
// bit pattern -1 as its failure sentinel, so the encoding never collides
// with genuine data.
package errno

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// MaxErrno is the largest error number that can be encoded in the pointer
// domain. It matches the range the kernel reserves at the top of the
// address space for error returns.
const MaxErrno = 4095

// Result is the set of native result types a wrapped call may return: int,
// ssize_t and pointer-sized results respectively.
type Result interface {
	~int32 | ~int64 | ~uintptr
}

// Sentinel returns the failure sentinel for T: all bits set, which is -1 for
// the signed domains and MAP_FAILED for the pointer domain.
func Sentinel[T Result]() T {
	return ^T(0)
}

// Encode returns the representation of -e in T.
func Encode[T Result](e unix.Errno) T {
	return -T(e)
}

// Decode reports whether r is an encoded error and, if so, which one.
//
// For signed domains any negative value is an encoded error. For the pointer
// domain, r is an encoded error when -r lies in [1, MaxErrno].
func Decode[T Result](r T) (unix.Errno, bool) {
	if signed[T]() {
		if r < 0 {
			return unix.Errno(-r), true
		}
		return 0, false
	}
	if e := -r; e != 0 && uint64(e) <= MaxErrno {
		return unix.Errno(e), true
	}
	return 0, false
}

// IsError reports whether r is an encoded error.
func IsError[T Result](r T) bool {
	_, ok := Decode(r)
	return ok
}

func signed[T Result]() bool {
	return ^T(0) < 0
}

// Name returns the symbolic name of e ("ENOENT"), or its decimal value when
// the platform has no name for it.
func Name(e unix.Errno) string {
	if name := unix.ErrnoName(e); name != "" {
		return name
	}
	return "errno " + strconv.FormatUint(uint64(e), 10)
}

