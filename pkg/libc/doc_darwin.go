//go:build darwin

package libc

// --- Darwin Porting Status ---
//
// LINUX_SPECIFIC:
//   - dup3(2)
//   - pipe2(2)
//   - sendfile(2) between two files (darwin's sendfile only writes to a socket)
//
// DARWIN_EQUIVALENT:
//   - dup2(2) followed by fcntl(F_SETFD, FD_CLOEXEC)
//   - pipe(2) followed by fcntl(F_SETFD, FD_CLOEXEC) and O_NONBLOCK
//   - none
//
// IMPACT:
//   Dup3 and Pipe2 are not atomic with respect to a concurrent fork/exec.
//   Sendfile reports ENOSYS without issuing a call.
//
// --- End Darwin Porting Status ---
