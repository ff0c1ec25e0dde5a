package posixcall

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
)

// Constructor builds a capability set for one platform family.
type Constructor interface {
	// New returns a capability set configured by opts.
	New(opts Options) PtrSyscalls
}

// UnsupportedPlatform is the name the unsupported-platform stub is
// registered under.
const UnsupportedPlatform = "unsupported"

// ErrUnknownPlatform is returned by Lookup for unregistered names.
var ErrUnknownPlatform = errors.New("unknown platform")

// platforms is written only from init functions.
var platforms = map[string]Constructor{}

// Register makes a capability set available under name. It panics if name
// is already registered.
func Register(name string, c Constructor) {
	if _, ok := platforms[name]; ok {
		panic(fmt.Sprintf("platform %q registered twice", name))
	}
	platforms[name] = c
}

// Lookup returns the constructor registered under name.
func Lookup(name string) (Constructor, error) {
	c, ok := platforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
	return c, nil
}

// Platforms returns the registered names, sorted.
func Platforms() []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the name of the capability set New uses on this build.
func Default() string {
	if _, ok := platforms[runtime.GOOS]; ok {
		return runtime.GOOS
	}
	return UnsupportedPlatform
}

// New returns this build's capability set with default options.
func New() Syscalls {
	return NewWithOptions(Options{})
}

// NewWithOptions returns this build's capability set configured by opts.
func NewWithOptions(opts Options) Syscalls {
	return NewPtr(opts)
}

// NewPtr returns this build's capability set, with the pointer-taking
// entry points, configured by opts.
func NewPtr(opts Options) PtrSyscalls {
	return platforms[Default()].New(opts)
}
