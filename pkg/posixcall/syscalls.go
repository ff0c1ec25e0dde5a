// Package posixcall is an errno-safe facade over a family of POSIX system
// calls.
//
// Every entry point returns the native result on success and the negated
// error number, in the call's own result type, on failure. The ambient
// error cell (errno) is the same after the call as it was before it, on
// both paths, so a caller that cannot read errno across its call boundary
// still learns exactly what failed.
//
// Use errno.Decode to tell an encoded error from genuine data.
package posixcall

import (
	"io"
	"os"
	"unsafe"

	"github.com/walteh/posixcall/pkg/errnocell"
	"golang.org/x/sys/unix"
)

// Syscalls is the capability set exposed to foreign callers. Each method
// takes the wrapped primitive's native arguments and returns its native
// result type with the encoding convention applied.
type Syscalls interface {
	Open(path string, flags int32, mode uint32) int32
	Close(fd int32) int32

	Read(fd int32, buf []byte) int64
	Write(fd int32, buf []byte) int64
	Readv(fd int32, iov []unix.Iovec) int64
	Writev(fd int32, iov []unix.Iovec) int64

	Dup(oldfd int32) int32
	Dup2(oldfd, newfd int32) int32
	Dup3(oldfd, newfd, flags int32) int32

	Fcntl(fd, cmd int32, arg uintptr) int32
	Ioctl(fd int32, request uint, argp unsafe.Pointer) int32

	Stat(path string, st *unix.Stat_t) int32
	Fstat(fd int32, st *unix.Stat_t) int32
	Lstat(path string, st *unix.Stat_t) int32

	Sendfile(outfd, infd int32, offset *int64, count int) int64

	// Mmap returns a mapping address, or an encoded error in the pointer
	// domain.
	Mmap(addr, length uintptr, prot, flags, fd int32, offset int64) uintptr
	Munmap(addr, length uintptr) int32

	Unlink(path string) int32

	Socket(domain, typ, protocol int32) int32
	Pipe(fds *[2]int32) int32
	Pipe2(fds *[2]int32, flags int32) int32
	Bind(fd int32, addr unsafe.Pointer, addrlen uint32) int32
	Getsockname(fd int32, addr unsafe.Pointer, addrlen *uint32) int32
}

// PtrSyscalls adds pointer-taking forms of the entry points whose Syscalls
// form takes a Go slice or string. Arguments reach the native call as
// given, so a nil buffer or path, or a negative iovec count, fails the way
// the operating system fails it.
type PtrSyscalls interface {
	Syscalls

	OpenPtr(path *byte, flags int32, mode uint32) int32
	ReadPtr(fd int32, buf unsafe.Pointer, count uintptr) int64
	WritePtr(fd int32, buf unsafe.Pointer, count uintptr) int64
	ReadvPtr(fd int32, iov *unix.Iovec, iovcnt int32) int64
	WritevPtr(fd int32, iov *unix.Iovec, iovcnt int32) int64
	StatPtr(path *byte, st *unix.Stat_t) int32
	LstatPtr(path *byte, st *unix.Stat_t) int32
	UnlinkPtr(path *byte) int32
}

// Options configure a capability set. Zero fields take defaults.
type Options struct {
	// Cell is the ambient error cell the native calls report through.
	// Defaults to errnocell.Default().
	Cell errnocell.Cell

	// Diagnostics receives the unsupported-platform diagnostic. Defaults to
	// os.Stderr.
	Diagnostics io.Writer
}

func (o Options) withDefaults() Options {
	if o.Cell == nil {
		o.Cell = errnocell.Default()
	}
	if o.Diagnostics == nil {
		o.Diagnostics = os.Stderr
	}
	return o
}

// IovecsOf builds an iovec array over bufs for Readv and Writev. Empty
// buffers are skipped.
func IovecsOf(bufs [][]byte) []unix.Iovec {
	iovecs := make([]unix.Iovec, 0, len(bufs))
	for i := range bufs {
		if l := len(bufs[i]); l > 0 {
			iov := unix.Iovec{Base: &bufs[i][0]}
			iov.SetLen(l)
			iovecs = append(iovecs, iov)
		}
	}
	return iovecs
}
