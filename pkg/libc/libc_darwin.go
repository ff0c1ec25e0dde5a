package libc

import (
	"golang.org/x/sys/unix"
)

// Darwin has neither dup3(2), pipe2(2) nor a file-to-file sendfile(2).
const (
	HaveDup3     = false
	HavePipe2    = false
	HaveSendfile = false
)

// Dup3 substitutes dup2(2), applying O_CLOEXEC with fcntl afterwards.
// Like dup3, it refuses oldfd == newfd and unknown flags with EINVAL.
func (l *Libc) Dup3(oldfd, newfd, flags int32) int32 {
	if oldfd == newfd || flags&^unix.O_CLOEXEC != 0 {
		l.cell.Store(unix.EINVAL)
		return -1
	}
	if r := l.Dup2(oldfd, newfd); r < 0 {
		return r
	}
	if flags&unix.O_CLOEXEC != 0 {
		if _, err := unix.FcntlInt(uintptr(newfd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
			unix.Close(int(newfd))
			return l.fail(err)
		}
	}
	return newfd
}

// Pipe implements pipe(2).
func (l *Libc) Pipe(fds *[2]int32) int32 {
	if fds == nil {
		l.cell.Store(unix.EFAULT)
		return -1
	}
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return l.fail(err)
	}
	fds[0], fds[1] = int32(p[0]), int32(p[1])
	return 0
}

// Pipe2 substitutes pipe(2), applying O_CLOEXEC and O_NONBLOCK to both ends
// with fcntl afterwards.
func (l *Libc) Pipe2(fds *[2]int32, flags int32) int32 {
	if flags&^(unix.O_CLOEXEC|unix.O_NONBLOCK) != 0 {
		l.cell.Store(unix.EINVAL)
		return -1
	}
	if r := l.Pipe(fds); r < 0 {
		return r
	}
	if err := manualPipeFlags(fds, flags); err != nil {
		unix.Close(int(fds[0]))
		unix.Close(int(fds[1]))
		return l.fail(err)
	}
	return 0
}

// manualPipeFlags sets the pipe2 flags on both ends of fds.
func manualPipeFlags(fds *[2]int32, flags int32) error {
	for _, fd := range fds {
		if flags&unix.O_CLOEXEC != 0 {
			if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
				return err
			}
		}
		if flags&unix.O_NONBLOCK != 0 {
			if err := unix.SetNonblock(int(fd), true); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sendfile is never called on darwin; the adapter short-circuits it using
// HaveSendfile. It fails with ENOSYS for direct callers.
func (l *Libc) Sendfile(outfd, infd int32, offset *int64, count int) int64 {
	l.cell.Store(unix.ENOSYS)
	return -1
}

// PipeSyscall is what Pipe issues.
const PipeSyscall = "pipe"

// OpenPtr implements open(2) on a NUL-terminated path.
func (l *Libc) OpenPtr(path *byte, flags int32, mode uint32) int32 {
	if path == nil {
		return l.fail(unix.EFAULT)
	}
	return l.Open(unix.BytePtrToString(path), flags, mode)
}

// UnlinkPtr implements unlink(2) on a NUL-terminated path.
func (l *Libc) UnlinkPtr(path *byte) int32 {
	if path == nil {
		return l.fail(unix.EFAULT)
	}
	return l.Unlink(unix.BytePtrToString(path))
}
