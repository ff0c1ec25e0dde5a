//go:build cgo && (linux || darwin)

// Binary libposixcall is the C ABI of the posixcall facade. Build it with
//
//	go build -buildmode=c-shared -o libposixcall.so ./libposixcall
//
// Each exported posixcall_<op> takes the native argument list of <op> and
// returns its native result type, or the negated errno on failure. The
// caller's errno is left as it was.
package main

/*
#include <stdint.h>
#include <sys/types.h>
#include <sys/stat.h>
#include <sys/uio.h>
#include <sys/socket.h>
*/
import "C"

import "unsafe"

//export posixcall_open
func posixcall_open(path *C.char, flags C.int, mode C.mode_t) C.int {
	return C.int(abiOpen(unsafe.Pointer(path), int32(flags), uint32(mode)))
}

//export posixcall_close
func posixcall_close(fd C.int) C.int {
	return C.int(sys.Close(int32(fd)))
}

//export posixcall_read
func posixcall_read(fd C.int, buf unsafe.Pointer, count C.size_t) C.ssize_t {
	return C.ssize_t(abiRead(int32(fd), buf, uintptr(count)))
}

//export posixcall_write
func posixcall_write(fd C.int, buf unsafe.Pointer, count C.size_t) C.ssize_t {
	return C.ssize_t(abiWrite(int32(fd), buf, uintptr(count)))
}

//export posixcall_readv
func posixcall_readv(fd C.int, iov *C.struct_iovec, iovcnt C.int) C.ssize_t {
	return C.ssize_t(abiReadv(int32(fd), unsafe.Pointer(iov), int32(iovcnt)))
}

//export posixcall_writev
func posixcall_writev(fd C.int, iov *C.struct_iovec, iovcnt C.int) C.ssize_t {
	return C.ssize_t(abiWritev(int32(fd), unsafe.Pointer(iov), int32(iovcnt)))
}

//export posixcall_dup
func posixcall_dup(oldfd C.int) C.int {
	return C.int(sys.Dup(int32(oldfd)))
}

//export posixcall_dup2
func posixcall_dup2(oldfd, newfd C.int) C.int {
	return C.int(sys.Dup2(int32(oldfd), int32(newfd)))
}

//export posixcall_dup3
func posixcall_dup3(oldfd, newfd, flags C.int) C.int {
	return C.int(sys.Dup3(int32(oldfd), int32(newfd), int32(flags)))
}

// posixcall_fcntl takes the optional third argument as a pointer-sized
// integer.
//
//export posixcall_fcntl
func posixcall_fcntl(fd, cmd C.int, arg C.uintptr_t) C.int {
	return C.int(sys.Fcntl(int32(fd), int32(cmd), uintptr(arg)))
}

//export posixcall_ioctl
func posixcall_ioctl(fd C.int, request C.ulong, argp unsafe.Pointer) C.int {
	return C.int(sys.Ioctl(int32(fd), uint(request), argp))
}

//export posixcall_stat
func posixcall_stat(path *C.char, st *C.struct_stat) C.int {
	return C.int(abiStat(unsafe.Pointer(path), unsafe.Pointer(st)))
}

//export posixcall_fstat
func posixcall_fstat(fd C.int, st *C.struct_stat) C.int {
	return C.int(abiFstat(int32(fd), unsafe.Pointer(st)))
}

//export posixcall_lstat
func posixcall_lstat(path *C.char, st *C.struct_stat) C.int {
	return C.int(abiLstat(unsafe.Pointer(path), unsafe.Pointer(st)))
}

//export posixcall_sendfile
func posixcall_sendfile(outfd, infd C.int, offset *C.off_t, count C.size_t) C.ssize_t {
	return C.ssize_t(abiSendfile(int32(outfd), int32(infd), unsafe.Pointer(offset), uintptr(count)))
}

//export posixcall_mmap
func posixcall_mmap(addr unsafe.Pointer, length C.size_t, prot, flags, fd C.int, offset C.off_t) unsafe.Pointer {
	return abiMmap(addr, uintptr(length), int32(prot), int32(flags), int32(fd), int64(offset))
}

//export posixcall_munmap
func posixcall_munmap(addr unsafe.Pointer, length C.size_t) C.int {
	return C.int(abiMunmap(addr, uintptr(length)))
}

//export posixcall_unlink
func posixcall_unlink(path *C.char) C.int {
	return C.int(abiUnlink(unsafe.Pointer(path)))
}

//export posixcall_socket
func posixcall_socket(domain, typ, protocol C.int) C.int {
	return C.int(sys.Socket(int32(domain), int32(typ), int32(protocol)))
}

//export posixcall_pipe
func posixcall_pipe(fds *C.int) C.int {
	return C.int(abiPipe(unsafe.Pointer(fds)))
}

//export posixcall_pipe2
func posixcall_pipe2(fds *C.int, flags C.int) C.int {
	return C.int(abiPipe2(unsafe.Pointer(fds), int32(flags)))
}

//export posixcall_bind
func posixcall_bind(sockfd C.int, addr *C.struct_sockaddr, addrlen C.socklen_t) C.int {
	return C.int(sys.Bind(int32(sockfd), unsafe.Pointer(addr), uint32(addrlen)))
}

//export posixcall_getsockname
func posixcall_getsockname(sockfd C.int, addr *C.struct_sockaddr, addrlen *C.socklen_t) C.int {
	return C.int(abiGetsockname(int32(sockfd), unsafe.Pointer(addr), unsafe.Pointer(addrlen)))
}

func main() {}
