//go:build linux || darwin

package posixcall

import (
	"runtime"
	"unsafe"

	"github.com/walteh/posixcall/pkg/errno"
	"github.com/walteh/posixcall/pkg/errnocell"
	"github.com/walteh/posixcall/pkg/libc"
	"golang.org/x/sys/unix"
)

type nativeConstructor struct{}

var _ Constructor = nativeConstructor{}

func init() {
	Register(runtime.GOOS, nativeConstructor{})
}

// New implements Constructor.New.
func (nativeConstructor) New(opts Options) PtrSyscalls {
	opts = opts.withDefaults()
	return &native{cell: opts.Cell, libc: libc.New(opts.Cell)}
}

// native applies the errno-encoding adapter to every libc operation.
type native struct {
	cell errnocell.Cell
	libc *libc.Libc
}

var _ PtrSyscalls = (*native)(nil)

// callName implements callNamer.
func (n *native) callName(op string) string {
	switch {
	case op == "pipe":
		return libc.PipeSyscall
	case op == "dup3" && !libc.HaveDup3:
		return "dup2+fcntl"
	case op == "pipe2" && !libc.HavePipe2:
		return "pipe+fcntl"
	case op == "sendfile" && !libc.HaveSendfile:
		return "ENOSYS"
	}
	return op
}

// Open implements Syscalls.Open.
func (n *native) Open(path string, flags int32, mode uint32) int32 {
	return call(n.cell, func() int32 { return n.libc.Open(path, flags, mode) })
}

// Close implements Syscalls.Close.
func (n *native) Close(fd int32) int32 {
	return call(n.cell, func() int32 { return n.libc.Close(fd) })
}

// Read implements Syscalls.Read.
func (n *native) Read(fd int32, buf []byte) int64 {
	return call(n.cell, func() int64 { return n.libc.Read(fd, buf) })
}

// Write implements Syscalls.Write.
func (n *native) Write(fd int32, buf []byte) int64 {
	return call(n.cell, func() int64 { return n.libc.Write(fd, buf) })
}

// Readv implements Syscalls.Readv.
func (n *native) Readv(fd int32, iov []unix.Iovec) int64 {
	return call(n.cell, func() int64 { return n.libc.Readv(fd, iov) })
}

// Writev implements Syscalls.Writev.
func (n *native) Writev(fd int32, iov []unix.Iovec) int64 {
	return call(n.cell, func() int64 { return n.libc.Writev(fd, iov) })
}

// Dup implements Syscalls.Dup.
func (n *native) Dup(oldfd int32) int32 {
	return call(n.cell, func() int32 { return n.libc.Dup(oldfd) })
}

// Dup2 implements Syscalls.Dup2.
func (n *native) Dup2(oldfd, newfd int32) int32 {
	return call(n.cell, func() int32 { return n.libc.Dup2(oldfd, newfd) })
}

// Dup3 implements Syscalls.Dup3.
func (n *native) Dup3(oldfd, newfd, flags int32) int32 {
	return call(n.cell, func() int32 { return n.libc.Dup3(oldfd, newfd, flags) })
}

// Fcntl implements Syscalls.Fcntl.
func (n *native) Fcntl(fd, cmd int32, arg uintptr) int32 {
	return call(n.cell, func() int32 { return n.libc.Fcntl(fd, cmd, arg) })
}

// Ioctl implements Syscalls.Ioctl.
func (n *native) Ioctl(fd int32, request uint, argp unsafe.Pointer) int32 {
	return call(n.cell, func() int32 { return n.libc.Ioctl(fd, request, argp) })
}

// Stat implements Syscalls.Stat.
func (n *native) Stat(path string, st *unix.Stat_t) int32 {
	return call(n.cell, func() int32 { return n.libc.Stat(path, st) })
}

// Fstat implements Syscalls.Fstat.
func (n *native) Fstat(fd int32, st *unix.Stat_t) int32 {
	return call(n.cell, func() int32 { return n.libc.Fstat(fd, st) })
}

// Lstat implements Syscalls.Lstat.
func (n *native) Lstat(path string, st *unix.Stat_t) int32 {
	return call(n.cell, func() int32 { return n.libc.Lstat(path, st) })
}

// Sendfile implements Syscalls.Sendfile. Without a native sendfile it
// returns the ENOSYS encoding and issues nothing.
func (n *native) Sendfile(outfd, infd int32, offset *int64, count int) int64 {
	if !libc.HaveSendfile {
		return errno.Encode[int64](unix.ENOSYS)
	}
	return call(n.cell, func() int64 { return n.libc.Sendfile(outfd, infd, offset, count) })
}

// Mmap implements Syscalls.Mmap.
func (n *native) Mmap(addr, length uintptr, prot, flags, fd int32, offset int64) uintptr {
	return call(n.cell, func() uintptr { return n.libc.Mmap(addr, length, prot, flags, fd, offset) })
}

// Munmap implements Syscalls.Munmap.
func (n *native) Munmap(addr, length uintptr) int32 {
	return call(n.cell, func() int32 { return n.libc.Munmap(addr, length) })
}

// Unlink implements Syscalls.Unlink.
func (n *native) Unlink(path string) int32 {
	return call(n.cell, func() int32 { return n.libc.Unlink(path) })
}

// Socket implements Syscalls.Socket.
func (n *native) Socket(domain, typ, protocol int32) int32 {
	return call(n.cell, func() int32 { return n.libc.Socket(domain, typ, protocol) })
}

// Pipe implements Syscalls.Pipe.
func (n *native) Pipe(fds *[2]int32) int32 {
	return call(n.cell, func() int32 { return n.libc.Pipe(fds) })
}

// Pipe2 implements Syscalls.Pipe2.
func (n *native) Pipe2(fds *[2]int32, flags int32) int32 {
	return call(n.cell, func() int32 { return n.libc.Pipe2(fds, flags) })
}

// Bind implements Syscalls.Bind.
func (n *native) Bind(fd int32, addr unsafe.Pointer, addrlen uint32) int32 {
	return call(n.cell, func() int32 { return n.libc.Bind(fd, addr, addrlen) })
}

// Getsockname implements Syscalls.Getsockname.
func (n *native) Getsockname(fd int32, addr unsafe.Pointer, addrlen *uint32) int32 {
	return call(n.cell, func() int32 { return n.libc.Getsockname(fd, addr, addrlen) })
}

// OpenPtr implements PtrSyscalls.OpenPtr.
func (n *native) OpenPtr(path *byte, flags int32, mode uint32) int32 {
	return call(n.cell, func() int32 { return n.libc.OpenPtr(path, flags, mode) })
}

// ReadPtr implements PtrSyscalls.ReadPtr.
func (n *native) ReadPtr(fd int32, buf unsafe.Pointer, count uintptr) int64 {
	return call(n.cell, func() int64 { return n.libc.ReadPtr(fd, buf, count) })
}

// WritePtr implements PtrSyscalls.WritePtr.
func (n *native) WritePtr(fd int32, buf unsafe.Pointer, count uintptr) int64 {
	return call(n.cell, func() int64 { return n.libc.WritePtr(fd, buf, count) })
}

// ReadvPtr implements PtrSyscalls.ReadvPtr.
func (n *native) ReadvPtr(fd int32, iov *unix.Iovec, iovcnt int32) int64 {
	return call(n.cell, func() int64 { return n.libc.ReadvPtr(fd, iov, iovcnt) })
}

// WritevPtr implements PtrSyscalls.WritevPtr.
func (n *native) WritevPtr(fd int32, iov *unix.Iovec, iovcnt int32) int64 {
	return call(n.cell, func() int64 { return n.libc.WritevPtr(fd, iov, iovcnt) })
}

// StatPtr implements PtrSyscalls.StatPtr.
func (n *native) StatPtr(path *byte, st *unix.Stat_t) int32 {
	return call(n.cell, func() int32 { return n.libc.StatPtr(path, st) })
}

// LstatPtr implements PtrSyscalls.LstatPtr.
func (n *native) LstatPtr(path *byte, st *unix.Stat_t) int32 {
	return call(n.cell, func() int32 { return n.libc.LstatPtr(path, st) })
}

// UnlinkPtr implements PtrSyscalls.UnlinkPtr.
func (n *native) UnlinkPtr(path *byte) int32 {
	return call(n.cell, func() int32 { return n.libc.UnlinkPtr(path) })
}
