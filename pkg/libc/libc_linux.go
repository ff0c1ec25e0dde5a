package libc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux provides the richer variants directly.
const (
	HaveDup3     = true
	HavePipe2    = true
	HaveSendfile = true
)

// Dup3 implements dup3(2).
func (l *Libc) Dup3(oldfd, newfd, flags int32) int32 {
	if err := unix.Dup3(int(oldfd), int(newfd), int(flags)); err != nil {
		return l.fail(err)
	}
	return newfd
}

// Pipe implements pipe(2).
func (l *Libc) Pipe(fds *[2]int32) int32 {
	return l.Pipe2(fds, 0)
}

// Pipe2 implements pipe2(2). fds is handed to the kernel as is, so a nil
// array fails with EFAULT like it would in C.
func (l *Libc) Pipe2(fds *[2]int32, flags int32) int32 {
	_, _, e := unix.RawSyscall(unix.SYS_PIPE2, uintptr(unsafe.Pointer(fds)), uintptr(flags), 0)
	if e != 0 {
		return l.fail(e)
	}
	return 0
}

// Sendfile implements sendfile(2).
func (l *Libc) Sendfile(outfd, infd int32, offset *int64, count int) int64 {
	n, err := unix.Sendfile(int(outfd), int(infd), offset, count)
	if err != nil {
		return l.fail64(err)
	}
	return int64(n)
}

// PipeSyscall is what Pipe issues.
const PipeSyscall = "pipe2"

// OpenPtr implements open(2) on a NUL-terminated path, as openat(AT_FDCWD).
// path reaches the kernel as given. O_LARGEFILE is added as open64 does.
func (l *Libc) OpenPtr(path *byte, flags int32, mode uint32) int32 {
	dirfd := unix.AT_FDCWD
	fd, _, e := unix.Syscall6(unix.SYS_OPENAT, uintptr(dirfd), uintptr(unsafe.Pointer(path)),
		uintptr(flags|unix.O_LARGEFILE), uintptr(mode), 0, 0)
	if e != 0 {
		return l.fail(e)
	}
	return int32(fd)
}

// UnlinkPtr implements unlink(2) on a NUL-terminated path, as
// unlinkat(AT_FDCWD).
func (l *Libc) UnlinkPtr(path *byte) int32 {
	dirfd := unix.AT_FDCWD
	_, _, e := unix.Syscall(unix.SYS_UNLINKAT, uintptr(dirfd), uintptr(unsafe.Pointer(path)), 0)
	if e != 0 {
		return l.fail(e)
	}
	return 0
}
