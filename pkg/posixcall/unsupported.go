package posixcall

import (
	"unsafe"

	"github.com/sirupsen/logrus"
	"github.com/walteh/posixcall/pkg/errno"
	"golang.org/x/sys/unix"
)

// unsupportedMessage is the diagnostic written once per call.
const unsupportedMessage = "syscalls not supported on this OS"

type unsupportedConstructor struct{}

var _ Constructor = unsupportedConstructor{}

func init() {
	Register(UnsupportedPlatform, unsupportedConstructor{})
}

// New implements Constructor.New.
func (unsupportedConstructor) New(opts Options) PtrSyscalls {
	return Unsupported(opts)
}

// Unsupported returns the capability set for platforms without the syscall
// family. Every entry point writes one diagnostic line to opts.Diagnostics
// and returns the ENOSYS encoding. It never touches the error cell.
func Unsupported(opts Options) PtrSyscalls {
	opts = opts.withDefaults()
	log := logrus.New()
	log.SetOutput(opts.Diagnostics)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &unsupported{log: log}
}

type unsupported struct {
	log *logrus.Logger
}

var _ PtrSyscalls = (*unsupported)(nil)

// notImplemented logs the diagnostic for op and returns -ENOSYS in T.
func notImplemented[T errno.Result](u *unsupported, op string) T {
	u.log.WithField("syscall", op).Error(unsupportedMessage)
	return errno.Encode[T](unix.ENOSYS)
}

// callName implements callNamer.
func (u *unsupported) callName(string) string {
	return "ENOSYS"
}

// Open implements Syscalls.Open.
func (u *unsupported) Open(string, int32, uint32) int32 {
	return notImplemented[int32](u, "open")
}

// Close implements Syscalls.Close.
func (u *unsupported) Close(int32) int32 {
	return notImplemented[int32](u, "close")
}

// Read implements Syscalls.Read.
func (u *unsupported) Read(int32, []byte) int64 {
	return notImplemented[int64](u, "read")
}

// Write implements Syscalls.Write.
func (u *unsupported) Write(int32, []byte) int64 {
	return notImplemented[int64](u, "write")
}

// Readv implements Syscalls.Readv.
func (u *unsupported) Readv(int32, []unix.Iovec) int64 {
	return notImplemented[int64](u, "readv")
}

// Writev implements Syscalls.Writev.
func (u *unsupported) Writev(int32, []unix.Iovec) int64 {
	return notImplemented[int64](u, "writev")
}

// Dup implements Syscalls.Dup.
func (u *unsupported) Dup(int32) int32 {
	return notImplemented[int32](u, "dup")
}

// Dup2 implements Syscalls.Dup2.
func (u *unsupported) Dup2(int32, int32) int32 {
	return notImplemented[int32](u, "dup2")
}

// Dup3 implements Syscalls.Dup3.
func (u *unsupported) Dup3(int32, int32, int32) int32 {
	return notImplemented[int32](u, "dup3")
}

// Fcntl implements Syscalls.Fcntl.
func (u *unsupported) Fcntl(int32, int32, uintptr) int32 {
	return notImplemented[int32](u, "fcntl")
}

// Ioctl implements Syscalls.Ioctl.
func (u *unsupported) Ioctl(int32, uint, unsafe.Pointer) int32 {
	return notImplemented[int32](u, "ioctl")
}

// Stat implements Syscalls.Stat.
func (u *unsupported) Stat(string, *unix.Stat_t) int32 {
	return notImplemented[int32](u, "stat")
}

// Fstat implements Syscalls.Fstat.
func (u *unsupported) Fstat(int32, *unix.Stat_t) int32 {
	return notImplemented[int32](u, "fstat")
}

// Lstat implements Syscalls.Lstat.
func (u *unsupported) Lstat(string, *unix.Stat_t) int32 {
	return notImplemented[int32](u, "lstat")
}

// Sendfile implements Syscalls.Sendfile.
func (u *unsupported) Sendfile(int32, int32, *int64, int) int64 {
	return notImplemented[int64](u, "sendfile")
}

// Mmap implements Syscalls.Mmap.
func (u *unsupported) Mmap(uintptr, uintptr, int32, int32, int32, int64) uintptr {
	return notImplemented[uintptr](u, "mmap")
}

// Munmap implements Syscalls.Munmap.
func (u *unsupported) Munmap(uintptr, uintptr) int32 {
	return notImplemented[int32](u, "munmap")
}

// Unlink implements Syscalls.Unlink.
func (u *unsupported) Unlink(string) int32 {
	return notImplemented[int32](u, "unlink")
}

// Socket implements Syscalls.Socket.
func (u *unsupported) Socket(int32, int32, int32) int32 {
	return notImplemented[int32](u, "socket")
}

// Pipe implements Syscalls.Pipe.
func (u *unsupported) Pipe(*[2]int32) int32 {
	return notImplemented[int32](u, "pipe")
}

// Pipe2 implements Syscalls.Pipe2.
func (u *unsupported) Pipe2(*[2]int32, int32) int32 {
	return notImplemented[int32](u, "pipe2")
}

// Bind implements Syscalls.Bind.
func (u *unsupported) Bind(int32, unsafe.Pointer, uint32) int32 {
	return notImplemented[int32](u, "bind")
}

// Getsockname implements Syscalls.Getsockname.
func (u *unsupported) Getsockname(int32, unsafe.Pointer, *uint32) int32 {
	return notImplemented[int32](u, "getsockname")
}

// OpenPtr implements PtrSyscalls.OpenPtr.
func (u *unsupported) OpenPtr(*byte, int32, uint32) int32 {
	return notImplemented[int32](u, "open")
}

// ReadPtr implements PtrSyscalls.ReadPtr.
func (u *unsupported) ReadPtr(int32, unsafe.Pointer, uintptr) int64 {
	return notImplemented[int64](u, "read")
}

// WritePtr implements PtrSyscalls.WritePtr.
func (u *unsupported) WritePtr(int32, unsafe.Pointer, uintptr) int64 {
	return notImplemented[int64](u, "write")
}

// ReadvPtr implements PtrSyscalls.ReadvPtr.
func (u *unsupported) ReadvPtr(int32, *unix.Iovec, int32) int64 {
	return notImplemented[int64](u, "readv")
}

// WritevPtr implements PtrSyscalls.WritevPtr.
func (u *unsupported) WritevPtr(int32, *unix.Iovec, int32) int64 {
	return notImplemented[int64](u, "writev")
}

// StatPtr implements PtrSyscalls.StatPtr.
func (u *unsupported) StatPtr(*byte, *unix.Stat_t) int32 {
	return notImplemented[int32](u, "stat")
}

// LstatPtr implements PtrSyscalls.LstatPtr.
func (u *unsupported) LstatPtr(*byte, *unix.Stat_t) int32 {
	return notImplemented[int32](u, "lstat")
}

// UnlinkPtr implements PtrSyscalls.UnlinkPtr.
func (u *unsupported) UnlinkPtr(*byte) int32 {
	return notImplemented[int32](u, "unlink")
}
