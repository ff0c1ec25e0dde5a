//go:build cgo && (linux || darwin)

package main

import (
	"unsafe"

	"github.com/walteh/posixcall/pkg/posixcall"
	"golang.org/x/sys/unix"
)

// The abi functions hold everything the exports do besides converting C
// scalar types. Pointers from the caller are reinterpreted, never copied
// or checked, so NULL and bad lengths reach the native call.

var sys = posixcall.NewPtr(posixcall.Options{})

func abiOpen(path unsafe.Pointer, flags int32, mode uint32) int32 {
	return sys.OpenPtr((*byte)(path), flags, mode)
}

func abiRead(fd int32, buf unsafe.Pointer, count uintptr) int64 {
	return sys.ReadPtr(fd, buf, count)
}

func abiWrite(fd int32, buf unsafe.Pointer, count uintptr) int64 {
	return sys.WritePtr(fd, buf, count)
}

func abiReadv(fd int32, iov unsafe.Pointer, iovcnt int32) int64 {
	return sys.ReadvPtr(fd, (*unix.Iovec)(iov), iovcnt)
}

func abiWritev(fd int32, iov unsafe.Pointer, iovcnt int32) int64 {
	return sys.WritevPtr(fd, (*unix.Iovec)(iov), iovcnt)
}

func abiStat(path, st unsafe.Pointer) int32 {
	return sys.StatPtr((*byte)(path), (*unix.Stat_t)(st))
}

func abiFstat(fd int32, st unsafe.Pointer) int32 {
	return sys.Fstat(fd, (*unix.Stat_t)(st))
}

func abiLstat(path, st unsafe.Pointer) int32 {
	return sys.LstatPtr((*byte)(path), (*unix.Stat_t)(st))
}

func abiSendfile(outfd, infd int32, offset unsafe.Pointer, count uintptr) int64 {
	return sys.Sendfile(outfd, infd, (*int64)(offset), int(count))
}

func abiMmap(addr unsafe.Pointer, length uintptr, prot, flags, fd int32, offset int64) unsafe.Pointer {
	return unsafe.Pointer(sys.Mmap(uintptr(addr), length, prot, flags, fd, offset))
}

func abiMunmap(addr unsafe.Pointer, length uintptr) int32 {
	return sys.Munmap(uintptr(addr), length)
}

func abiUnlink(path unsafe.Pointer) int32 {
	return sys.UnlinkPtr((*byte)(path))
}

func abiPipe(fds unsafe.Pointer) int32 {
	return sys.Pipe((*[2]int32)(fds))
}

func abiPipe2(fds unsafe.Pointer, flags int32) int32 {
	return sys.Pipe2((*[2]int32)(fds), flags)
}

func abiGetsockname(fd int32, addr, addrlen unsafe.Pointer) int32 {
	return sys.Getsockname(fd, addr, (*uint32)(addrlen))
}
