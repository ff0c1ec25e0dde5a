//go:build linux || darwin

package posixcall

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"unsafe"

	"github.com/kr/pty"
	"github.com/walteh/posixcall/pkg/errno"
	"github.com/walteh/posixcall/pkg/errnocell"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// checkCell runs fn with the calling thread's default cell set to marker and
// fails the test if fn's calls leave anything else behind.
func checkCell(t *testing.T, fn func(s Syscalls)) {
	t.Helper()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cell := errnocell.Default()
	saved := cell.Load()
	defer cell.Store(saved)

	cell.Store(marker)
	fn(New())
	if got := cell.Load(); got != marker {
		t.Errorf("ambient cell = %v after calls, want %v", got, marker)
	}
}

func decoded[T errno.Result](r T) unix.Errno {
	e, _ := errno.Decode(r)
	return e
}

func TestNewIsNative(t *testing.T) {
	if Default() != runtime.GOOS {
		t.Fatalf("Default() = %q, want %q", Default(), runtime.GOOS)
	}
	if _, ok := New().(*native); !ok {
		t.Errorf("New() = %T, want *native", New())
	}
}

func TestFailures(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	sendfileWant := unix.EBADF
	if runtime.GOOS == "darwin" {
		sendfileWant = unix.ENOSYS
	}

	for _, tc := range []struct {
		name string
		// want lists acceptable errors; empty means any error.
		want []unix.Errno
		call func(s Syscalls) unix.Errno
	}{
		{"open", []unix.Errno{unix.ENOENT}, func(s Syscalls) unix.Errno {
			return decoded(s.Open(missing, unix.O_RDONLY, 0))
		}},
		{"close", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno { return decoded(s.Close(-1)) }},
		{"read", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno { return decoded(s.Read(-1, make([]byte, 1))) }},
		{"write", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno { return decoded(s.Write(-1, []byte("x"))) }},
		{"readv", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno {
			return decoded(s.Readv(-1, IovecsOf([][]byte{make([]byte, 1)})))
		}},
		{"writev", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno {
			return decoded(s.Writev(-1, IovecsOf([][]byte{[]byte("x")})))
		}},
		{"dup", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno { return decoded(s.Dup(-1)) }},
		{"dup2", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno { return decoded(s.Dup2(-1, 200)) }},
		{"dup3", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno { return decoded(s.Dup3(-1, 200, 0)) }},
		{"fcntl", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno { return decoded(s.Fcntl(-1, unix.F_GETFD, 0)) }},
		{"ioctl", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno {
			var ws unix.Winsize
			return decoded(s.Ioctl(-1, unix.TIOCGWINSZ, unsafe.Pointer(&ws)))
		}},
		{"stat", []unix.Errno{unix.ENOENT}, func(s Syscalls) unix.Errno {
			var st unix.Stat_t
			return decoded(s.Stat(missing, &st))
		}},
		{"fstat", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno {
			var st unix.Stat_t
			return decoded(s.Fstat(-1, &st))
		}},
		{"lstat", []unix.Errno{unix.ENOENT}, func(s Syscalls) unix.Errno {
			var st unix.Stat_t
			return decoded(s.Lstat(missing, &st))
		}},
		{"sendfile", []unix.Errno{sendfileWant}, func(s Syscalls) unix.Errno { return decoded(s.Sendfile(-1, -1, nil, 1)) }},
		{"mmap", []unix.Errno{unix.EINVAL}, func(s Syscalls) unix.Errno {
			return decoded(s.Mmap(0, 0, unix.PROT_READ, unix.MAP_PRIVATE|unix.MAP_ANON, -1, 0))
		}},
		{"munmap", []unix.Errno{unix.EINVAL}, func(s Syscalls) unix.Errno { return decoded(s.Munmap(1, 4096)) }},
		{"unlink", []unix.Errno{unix.ENOENT}, func(s Syscalls) unix.Errno { return decoded(s.Unlink(missing)) }},
		{"socket", nil, func(s Syscalls) unix.Errno { return decoded(s.Socket(-1, unix.SOCK_STREAM, 0)) }},
		{"pipe", []unix.Errno{unix.EFAULT}, func(s Syscalls) unix.Errno { return decoded(s.Pipe(nil)) }},
		{"pipe2", []unix.Errno{unix.EINVAL}, func(s Syscalls) unix.Errno {
			var fds [2]int32
			return decoded(s.Pipe2(&fds, -1))
		}},
		{"bind", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno {
			sa := unix.RawSockaddrInet4{Family: unix.AF_INET}
			return decoded(s.Bind(-1, unsafe.Pointer(&sa), unix.SizeofSockaddrInet4))
		}},
		{"getsockname", []unix.Errno{unix.EBADF}, func(s Syscalls) unix.Errno {
			var sa unix.RawSockaddrInet4
			l := uint32(unix.SizeofSockaddrInet4)
			return decoded(s.Getsockname(-1, unsafe.Pointer(&sa), &l))
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			checkCell(t, func(s Syscalls) {
				got := tc.call(s)
				if got == 0 {
					t.Fatalf("%s succeeded, want failure", tc.name)
				}
				if len(tc.want) == 0 {
					return
				}
				for _, w := range tc.want {
					if got == w {
						return
					}
				}
				t.Errorf("%s failed with %v, want one of %v", tc.name, got, tc.want)
			})
		})
	}
}

func TestOpenMissingThenExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	checkCell(t, func(s Syscalls) {
		if r := s.Open(filepath.Join(dir, "absent"), unix.O_RDONLY, 0); r != -int32(unix.ENOENT) {
			t.Errorf("Open(absent) = %d, want %d", r, -int32(unix.ENOENT))
		}
		fd := s.Open(path, unix.O_RDONLY, 0)
		if fd < 0 {
			t.Fatalf("Open(present) = %d (%v)", fd, decoded(fd))
		}
		s.Close(fd)
	})
}

func TestWriteReadOnly(t *testing.T) {
	checkCell(t, func(s Syscalls) {
		fd := s.Open(os.DevNull, unix.O_RDONLY, 0)
		if fd < 0 {
			t.Fatalf("Open(%s) = %d", os.DevNull, fd)
		}
		defer s.Close(fd)

		switch e := decoded(s.Write(fd, []byte("x"))); e {
		case unix.EBADF, unix.EINVAL:
		default:
			t.Errorf("Write(O_RDONLY) decoded %v, want EBADF or EINVAL", e)
		}
	})
}

func TestFileOperations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data")
	link := filepath.Join(dir, "link")

	checkCell(t, func(s Syscalls) {
		fd := s.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_TRUNC, 0o644)
		if fd < 0 {
			t.Fatalf("Open(O_CREAT) = %d (%v)", fd, decoded(fd))
		}
		if n := s.Writev(fd, IovecsOf([][]byte{[]byte("hello, "), []byte("world")})); n != 12 {
			t.Errorf("Writev() = %d, want 12", n)
		}

		var st unix.Stat_t
		if r := s.Fstat(fd, &st); r != 0 || st.Size != 12 {
			t.Errorf("Fstat() = %d, size %d; want 0, 12", r, st.Size)
		}
		if r := s.Stat(path, &st); r != 0 || st.Mode&unix.S_IFMT != unix.S_IFREG {
			t.Errorf("Stat() = %d, mode %#o; want regular file", r, st.Mode)
		}
		if err := os.Symlink(path, link); err != nil {
			t.Fatal(err)
		}
		if r := s.Lstat(link, &st); r != 0 || st.Mode&unix.S_IFMT != unix.S_IFLNK {
			t.Errorf("Lstat() = %d, mode %#o; want symlink", r, st.Mode)
		}

		if r := s.Fcntl(fd, unix.F_SETFD, unix.FD_CLOEXEC); r != 0 {
			t.Errorf("Fcntl(F_SETFD) = %d", r)
		}
		if r := s.Fcntl(fd, unix.F_GETFD, 0); r < 0 || r&unix.FD_CLOEXEC == 0 {
			t.Errorf("Fcntl(F_GETFD) = %d, want FD_CLOEXEC set", r)
		}
		if r := s.Close(fd); r != 0 {
			t.Errorf("Close() = %d", r)
		}

		fd = s.Open(path, unix.O_RDONLY, 0)
		a, b := make([]byte, 5), make([]byte, 16)
		if n := s.Readv(fd, IovecsOf([][]byte{a, b})); n != 12 {
			t.Errorf("Readv() = %d, want 12", n)
		}
		if got := string(a) + string(b[:7]); got != "hello, world" {
			t.Errorf("Readv() read %q", got)
		}
		if n := s.Read(fd, b); n != 0 {
			t.Errorf("Read() at EOF = %d, want 0", n)
		}
		s.Close(fd)

		if r := s.Unlink(path); r != 0 {
			t.Errorf("Unlink() = %d", r)
		}
		if r := s.Stat(path, &st); r != -int32(unix.ENOENT) {
			t.Errorf("Stat() after Unlink = %d, want -ENOENT", r)
		}
	})
}

func TestDupIndependentLifetimes(t *testing.T) {
	checkCell(t, func(s Syscalls) {
		var fds [2]int32
		if r := s.Pipe(&fds); r != 0 {
			t.Fatalf("Pipe() = %d", r)
		}
		defer s.Close(fds[0])

		dup := s.Dup(fds[1])
		if dup < 0 {
			t.Fatalf("Dup() = %d", dup)
		}
		if r := s.Close(fds[1]); r != 0 {
			t.Fatalf("Close(original) = %d", r)
		}
		if n := s.Write(dup, []byte("ping")); n != 4 {
			t.Errorf("Write(dup) = %d, want 4", n)
		}
		buf := make([]byte, 4)
		if n := s.Read(fds[0], buf); n != 4 || string(buf) != "ping" {
			t.Errorf("Read() = %d %q, want 4 %q", n, buf, "ping")
		}
		s.Close(dup)
	})
}

func TestDup2Dup3(t *testing.T) {
	checkCell(t, func(s Syscalls) {
		var fds [2]int32
		if r := s.Pipe2(&fds, unix.O_CLOEXEC); r != 0 {
			t.Fatalf("Pipe2() = %d", r)
		}
		defer s.Close(fds[0])
		defer s.Close(fds[1])

		target := s.Dup(fds[0])
		if target < 0 {
			t.Fatalf("Dup() = %d", target)
		}
		defer s.Close(target)

		if r := s.Dup2(fds[1], target); r != target {
			t.Errorf("Dup2() = %d, want %d", r, target)
		}
		if r := s.Dup3(fds[1], target, unix.O_CLOEXEC); r != target {
			t.Errorf("Dup3() = %d, want %d", r, target)
		}
		if r := s.Fcntl(target, unix.F_GETFD, 0); r&unix.FD_CLOEXEC == 0 {
			t.Errorf("Fcntl(F_GETFD) after Dup3(O_CLOEXEC) = %d", r)
		}
		if r := s.Dup3(target, target, 0); r != -int32(unix.EINVAL) {
			t.Errorf("Dup3(fd, fd) = %d, want -EINVAL", r)
		}
	})
}

func TestMmapMunmap(t *testing.T) {
	checkCell(t, func(s Syscalls) {
		length := uintptr(os.Getpagesize())
		addr := s.Mmap(0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON, -1, 0)
		if e, ok := errno.Decode(addr); ok {
			t.Fatalf("Mmap() failed: %v", e)
		}
		mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
		mem[0], mem[length-1] = 1, 2
		if r := s.Munmap(addr, length); r != 0 {
			t.Errorf("Munmap() = %d", r)
		}

		r := s.Mmap(0, 0, unix.PROT_READ, unix.MAP_PRIVATE|unix.MAP_ANON, -1, 0)
		if e, ok := errno.Decode(r); !ok || e != unix.EINVAL {
			t.Errorf("Mmap(len 0) decoded (%v, %t), want (EINVAL, true)", e, ok)
		}
	})
}

func TestSocketBindGetsockname(t *testing.T) {
	checkCell(t, func(s Syscalls) {
		fd := s.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
		if fd < 0 {
			t.Skipf("Socket(AF_INET) = %v", decoded(fd))
		}
		defer s.Close(fd)

		sa := unix.RawSockaddrInet4{Family: unix.AF_INET, Addr: [4]byte{127, 0, 0, 1}}
		if r := s.Bind(fd, unsafe.Pointer(&sa), unix.SizeofSockaddrInet4); r != 0 {
			t.Skipf("Bind(127.0.0.1:0) = %v", decoded(r))
		}

		var got unix.RawSockaddrInet4
		l := uint32(unix.SizeofSockaddrInet4)
		if r := s.Getsockname(fd, unsafe.Pointer(&got), &l); r != 0 {
			t.Fatalf("Getsockname() = %d", r)
		}
		if got.Port == 0 || got.Addr != sa.Addr {
			t.Errorf("Getsockname() = port %d addr %v, want bound port on %v", got.Port, got.Addr, sa.Addr)
		}
	})
}

func TestIoctlTerminal(t *testing.T) {
	ptm, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty.Open: %v", err)
	}
	defer ptm.Close()
	defer tty.Close()
	if err := pty.Setsize(tty, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatalf("pty.Setsize: %v", err)
	}

	checkCell(t, func(s Syscalls) {
		var ws unix.Winsize
		if r := s.Ioctl(int32(tty.Fd()), unix.TIOCGWINSZ, unsafe.Pointer(&ws)); r != 0 {
			t.Fatalf("Ioctl(TIOCGWINSZ) = %d (%v)", r, decoded(r))
		}
		if ws.Row != 24 || ws.Col != 80 {
			t.Errorf("Ioctl(TIOCGWINSZ) = %dx%d, want 24x80", ws.Row, ws.Col)
		}

		f, err := os.Open(os.DevNull)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if r := s.Ioctl(int32(f.Fd()), unix.TIOCGWINSZ, unsafe.Pointer(&ws)); r != -int32(unix.ENOTTY) {
			t.Errorf("Ioctl(/dev/null, TIOCGWINSZ) = %d, want -ENOTTY", r)
		}
	})
}

func TestConcurrentCellsUntouched(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	s := New()

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		mark := unix.Errno(100 + i)
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			cell := errnocell.Default()
			saved := cell.Load()
			defer cell.Store(saved)

			cell.Store(mark)
			for j := 0; j < 50; j++ {
				if r := s.Open(missing, unix.O_RDONLY, 0); r != -int32(unix.ENOENT) {
					return fmt.Errorf("Open(missing) = %d", r)
				}
				if got := cell.Load(); got != mark {
					return fmt.Errorf("cell = %v, want %v", got, mark)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Error(err)
	}
}

func TestPtrArgumentsUnmodified(t *testing.T) {
	dir := t.TempDir()
	path := append([]byte(filepath.Join(dir, "f")), 0)

	checkCell(t, func(s Syscalls) {
		p := s.(PtrSyscalls)

		for _, tc := range []struct {
			name string
			got  unix.Errno
			want unix.Errno
		}{
			{"OpenPtr(nil)", decoded(p.OpenPtr(nil, unix.O_RDONLY, 0)), unix.EFAULT},
			{"StatPtr(nil)", decoded(p.StatPtr(nil, new(unix.Stat_t))), unix.EFAULT},
			{"LstatPtr(nil)", decoded(p.LstatPtr(nil, new(unix.Stat_t))), unix.EFAULT},
			{"UnlinkPtr(nil)", decoded(p.UnlinkPtr(nil)), unix.EFAULT},
			{"ReadPtr(-1)", decoded(p.ReadPtr(-1, nil, 0)), unix.EBADF},
		} {
			if tc.got != tc.want {
				t.Errorf("%s decoded %v, want %v", tc.name, tc.got, tc.want)
			}
		}

		fd := p.OpenPtr(&path[0], unix.O_CREAT|unix.O_RDWR, 0o600)
		if errno.IsError(fd) {
			t.Fatalf("OpenPtr() = %d (%v)", fd, decoded(fd))
		}
		defer s.Close(fd)

		if e := decoded(p.WritePtr(fd, nil, 4)); e != unix.EFAULT {
			t.Errorf("WritePtr(nil, 4) decoded %v, want EFAULT", e)
		}
		data := []byte("abcd")
		if n := p.WritePtr(fd, unsafe.Pointer(&data[0]), 4); n != 4 {
			t.Errorf("WritePtr() = %d, want 4", n)
		}
		var st unix.Stat_t
		if r := p.StatPtr(&path[0], &st); r != 0 || st.Size != 4 {
			t.Errorf("StatPtr() = %d, size %d; want 0, 4", r, st.Size)
		}

		iov := IovecsOf([][]byte{make([]byte, 4)})
		if e := decoded(p.ReadvPtr(fd, &iov[0], -1)); e != unix.EINVAL {
			t.Errorf("ReadvPtr(iovcnt -1) decoded %v, want EINVAL", e)
		}
		if e := decoded(p.WritevPtr(fd, nil, 1)); e != unix.EFAULT {
			t.Errorf("WritevPtr(nil, 1) decoded %v, want EFAULT", e)
		}
		if r := p.UnlinkPtr(&path[0]); r != 0 {
			t.Errorf("UnlinkPtr() = %d", r)
		}
	})
}
