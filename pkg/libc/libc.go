//go:build linux || darwin

package libc

import (
	"unsafe"

	"github.com/walteh/posixcall/pkg/errno"
	"github.com/walteh/posixcall/pkg/errnocell"
	"golang.org/x/sys/unix"
)

// MapFailed is the failure sentinel of Mmap, MAP_FAILED in C.
const MapFailed = ^uintptr(0)

// Libc issues native operations, reporting failures through a Cell.
type Libc struct {
	cell errnocell.Cell
}

// New returns a Libc that stores error numbers in cell.
func New(cell errnocell.Cell) *Libc {
	return &Libc{cell: cell}
}

// fail stores the errno carried by err and returns the int sentinel.
func (l *Libc) fail(err error) int32 {
	l.cell.Store(errno.FromError(err))
	return -1
}

func (l *Libc) fail64(err error) int64 {
	l.cell.Store(errno.FromError(err))
	return -1
}

func (l *Libc) result(err error) int32 {
	if err != nil {
		return l.fail(err)
	}
	return 0
}

// Open implements open(2).
func (l *Libc) Open(path string, flags int32, mode uint32) int32 {
	fd, err := unix.Open(path, int(flags), mode)
	if err != nil {
		return l.fail(err)
	}
	return int32(fd)
}

// Close implements close(2).
func (l *Libc) Close(fd int32) int32 {
	return l.result(unix.Close(int(fd)))
}

// Read implements read(2) into buf.
func (l *Libc) Read(fd int32, buf []byte) int64 {
	n, err := unix.Read(int(fd), buf)
	if err != nil {
		return l.fail64(err)
	}
	return int64(n)
}

// Write implements write(2) from buf.
func (l *Libc) Write(fd int32, buf []byte) int64 {
	n, err := unix.Write(int(fd), buf)
	if err != nil {
		return l.fail64(err)
	}
	return int64(n)
}

// Readv implements readv(2).
func (l *Libc) Readv(fd int32, iov []unix.Iovec) int64 {
	return l.vec(unix.SYS_READV, fd, iov)
}

// Writev implements writev(2).
func (l *Libc) Writev(fd int32, iov []unix.Iovec) int64 {
	return l.vec(unix.SYS_WRITEV, fd, iov)
}

func (l *Libc) vec(sysno uintptr, fd int32, iov []unix.Iovec) int64 {
	var p unsafe.Pointer
	if len(iov) > 0 {
		p = unsafe.Pointer(&iov[0])
	}
	return l.raw64(sysno, fd, p, uintptr(len(iov)))
}

// Dup implements dup(2).
func (l *Libc) Dup(oldfd int32) int32 {
	fd, err := unix.Dup(int(oldfd))
	if err != nil {
		return l.fail(err)
	}
	return int32(fd)
}

// Dup2 implements dup2(2).
func (l *Libc) Dup2(oldfd, newfd int32) int32 {
	if err := unix.Dup2(int(oldfd), int(newfd)); err != nil {
		return l.fail(err)
	}
	return newfd
}

// Fcntl implements fcntl(2). arg is passed to the kernel untouched, so it
// may be an integer or the address of caller-owned memory.
func (l *Libc) Fcntl(fd, cmd int32, arg uintptr) int32 {
	r, _, e := unix.Syscall(unix.SYS_FCNTL, uintptr(fd), uintptr(cmd), arg)
	if e != 0 {
		return l.fail(e)
	}
	return int32(r)
}

// Ioctl implements ioctl(2).
func (l *Libc) Ioctl(fd int32, request uint, argp unsafe.Pointer) int32 {
	r, _, e := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(request), uintptr(argp))
	if e != 0 {
		return l.fail(e)
	}
	return int32(r)
}

// Stat implements stat(2).
func (l *Libc) Stat(path string, st *unix.Stat_t) int32 {
	return l.result(unix.Stat(path, st))
}

// Fstat implements fstat(2).
func (l *Libc) Fstat(fd int32, st *unix.Stat_t) int32 {
	return l.result(unix.Fstat(int(fd), st))
}

// Lstat implements lstat(2).
func (l *Libc) Lstat(path string, st *unix.Stat_t) int32 {
	return l.result(unix.Lstat(path, st))
}

// Mmap implements mmap(2). The result is an address, or MapFailed.
func (l *Libc) Mmap(addr, length uintptr, prot, flags, fd int32, offset int64) uintptr {
	p, err := unix.MmapPtr(int(fd), offset, unsafe.Pointer(addr), length, int(prot), int(flags))
	if err != nil {
		l.cell.Store(errno.FromError(err))
		return MapFailed
	}
	return uintptr(p)
}

// Munmap implements munmap(2).
func (l *Libc) Munmap(addr, length uintptr) int32 {
	return l.result(unix.MunmapPtr(unsafe.Pointer(addr), length))
}

// Unlink implements unlink(2).
func (l *Libc) Unlink(path string) int32 {
	return l.result(unix.Unlink(path))
}

// Socket implements socket(2).
func (l *Libc) Socket(domain, typ, protocol int32) int32 {
	fd, err := unix.Socket(int(domain), int(typ), int(protocol))
	if err != nil {
		return l.fail(err)
	}
	return int32(fd)
}

// Bind implements bind(2) with a caller-encoded socket address.
func (l *Libc) Bind(fd int32, addr unsafe.Pointer, addrlen uint32) int32 {
	_, _, e := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(addr), uintptr(addrlen))
	if e != 0 {
		return l.fail(e)
	}
	return 0
}

// Getsockname implements getsockname(2). On return *addrlen holds the size
// of the bound address, which may exceed the size of the buffer.
func (l *Libc) Getsockname(fd int32, addr unsafe.Pointer, addrlen *uint32) int32 {
	_, _, e := unix.RawSyscall(unix.SYS_GETSOCKNAME, uintptr(fd), uintptr(addr), uintptr(unsafe.Pointer(addrlen)))
	if e != 0 {
		return l.fail(e)
	}
	return 0
}
