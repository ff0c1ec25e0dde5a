package posixcall

// Domain is the native result type of an operation.
type Domain int

// Result domains.
const (
	DomainInt     Domain = iota // int
	DomainSsize                 // ssize_t
	DomainPointer               // void*
)

// String implements fmt.Stringer.
func (d Domain) String() string {
	switch d {
	case DomainInt:
		return "int"
	case DomainSsize:
		return "ssize_t"
	case DomainPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Sentinel returns the C spelling of the domain's failure sentinel.
func (d Domain) Sentinel() string {
	if d == DomainPointer {
		return "MAP_FAILED"
	}
	return "-1"
}

// Descriptor describes one wrapped operation.
type Descriptor struct {
	// Name is the native operation's name.
	Name string

	// Args is the native argument list.
	Args string

	// Domain is the native result type.
	Domain Domain

	// Call is what a capability set actually issues for the operation: the
	// native name, a fallback such as "dup2+fcntl", or "ENOSYS" when it
	// returns the not-implemented encoding without a call.
	Call string
}

var operations = []Descriptor{
	{Name: "open", Args: "path, flags, mode", Domain: DomainInt},
	{Name: "close", Args: "fd", Domain: DomainInt},
	{Name: "read", Args: "fd, buf, count", Domain: DomainSsize},
	{Name: "write", Args: "fd, buf, count", Domain: DomainSsize},
	{Name: "readv", Args: "fd, iov, iovcnt", Domain: DomainSsize},
	{Name: "writev", Args: "fd, iov, iovcnt", Domain: DomainSsize},
	{Name: "dup", Args: "oldfd", Domain: DomainInt},
	{Name: "dup2", Args: "oldfd, newfd", Domain: DomainInt},
	{Name: "dup3", Args: "oldfd, newfd, flags", Domain: DomainInt},
	{Name: "fcntl", Args: "fd, cmd, arg", Domain: DomainInt},
	{Name: "ioctl", Args: "fd, request, argp", Domain: DomainInt},
	{Name: "stat", Args: "path, statbuf", Domain: DomainInt},
	{Name: "fstat", Args: "fd, statbuf", Domain: DomainInt},
	{Name: "lstat", Args: "path, statbuf", Domain: DomainInt},
	{Name: "sendfile", Args: "out_fd, in_fd, offset, count", Domain: DomainSsize},
	{Name: "mmap", Args: "addr, length, prot, flags, fd, offset", Domain: DomainPointer},
	{Name: "munmap", Args: "addr, length", Domain: DomainInt},
	{Name: "unlink", Args: "path", Domain: DomainInt},
	{Name: "socket", Args: "domain, type, protocol", Domain: DomainInt},
	{Name: "pipe", Args: "pipefd", Domain: DomainInt},
	{Name: "pipe2", Args: "pipefd, flags", Domain: DomainInt},
	{Name: "bind", Args: "sockfd, addr, addrlen", Domain: DomainInt},
	{Name: "getsockname", Args: "sockfd, addr, addrlen", Domain: DomainInt},
}

// callNamer is implemented by capability sets that issue something other
// than the native operation for some entries.
type callNamer interface {
	callName(op string) string
}

// Operations returns the descriptor table of s, in a fixed order.
func Operations(s Syscalls) []Descriptor {
	ops := make([]Descriptor, len(operations))
	copy(ops, operations)
	cn, _ := s.(callNamer)
	for i := range ops {
		ops[i].Call = ops[i].Name
		if cn != nil {
			ops[i].Call = cn.callName(ops[i].Name)
		}
	}
	return ops
}
