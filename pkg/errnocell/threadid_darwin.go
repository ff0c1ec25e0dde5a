package errnocell

import "golang.org/x/sys/unix"

// threadID returns the 64-bit Mach thread id of the calling thread.
func threadID() int {
	id, _, _ := unix.RawSyscall(unix.SYS_THREAD_SELFID, 0, 0, 0)
	return int(id)
}
