//go:build linux || darwin

package libc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ReadPtr implements read(2) into caller-owned memory. buf and count reach
// the kernel as given.
func (l *Libc) ReadPtr(fd int32, buf unsafe.Pointer, count uintptr) int64 {
	return l.raw64(unix.SYS_READ, fd, buf, count)
}

// WritePtr implements write(2) from caller-owned memory.
func (l *Libc) WritePtr(fd int32, buf unsafe.Pointer, count uintptr) int64 {
	return l.raw64(unix.SYS_WRITE, fd, buf, count)
}

// ReadvPtr implements readv(2) over a caller-owned iovec array. A negative
// iovcnt is passed through and rejected by the kernel.
func (l *Libc) ReadvPtr(fd int32, iov *unix.Iovec, iovcnt int32) int64 {
	return l.raw64(unix.SYS_READV, fd, unsafe.Pointer(iov), uintptr(iovcnt))
}

// WritevPtr implements writev(2) over a caller-owned iovec array.
func (l *Libc) WritevPtr(fd int32, iov *unix.Iovec, iovcnt int32) int64 {
	return l.raw64(unix.SYS_WRITEV, fd, unsafe.Pointer(iov), uintptr(iovcnt))
}

func (l *Libc) raw64(sysno uintptr, fd int32, p unsafe.Pointer, n uintptr) int64 {
	r, _, e := unix.Syscall(sysno, uintptr(fd), uintptr(p), n)
	if e != 0 {
		return l.fail64(e)
	}
	return int64(r)
}

// StatPtr implements stat(2) on a NUL-terminated path.
func (l *Libc) StatPtr(path *byte, st *unix.Stat_t) int32 {
	if path == nil {
		return l.fail(unix.EFAULT)
	}
	return l.Stat(unix.BytePtrToString(path), st)
}

// LstatPtr implements lstat(2) on a NUL-terminated path.
func (l *Libc) LstatPtr(path *byte, st *unix.Stat_t) int32 {
	if path == nil {
		return l.fail(unix.EFAULT)
	}
	return l.Lstat(unix.BytePtrToString(path), st)
}
