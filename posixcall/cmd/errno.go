package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/walteh/posixcall/pkg/errno"
	"golang.org/x/sys/unix"
)

// Errno implements subcommands.Command for the "errno" command.
type Errno struct {
	pointer bool
}

// Name implements subcommands.Command.Name.
func (*Errno) Name() string {
	return "errno"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Errno) Synopsis() string {
	return "decode encoded results"
}

// Usage implements subcommands.Command.Usage.
func (*Errno) Usage() string {
	return `errno [flags] VALUE... - decode values returned by the facade.

Negative values are errors in the int and ssize_t domains. With -pointer,
values are addresses and only the top 4095 decode as errors. Values may be
written in decimal or with a 0x prefix.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (e *Errno) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&e.pointer, "pointer", false, "decode values in the pointer (mmap) domain.")
}

// Execute implements subcommands.Command.Execute.
func (e *Errno) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := decodeAll(os.Stdout, f.Args(), e.pointer); err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}

func decodeAll(out io.Writer, values []string, pointer bool) error {
	for _, v := range values {
		line, err := decodeValue(v, pointer)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// decodeValue describes one encoded result.
func decodeValue(v string, pointer bool) (string, error) {
	var (
		e  unix.Errno
		ok bool
	)
	if pointer {
		r, err := parsePointer(v)
		if err != nil {
			return "", err
		}
		if e, ok = errno.Decode(r); !ok {
			return fmt.Sprintf("%s\taddress %#x", v, r), nil
		}
	} else {
		r, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return "", fmt.Errorf("parsing %q: %w", v, err)
		}
		if e, ok = errno.Decode(r); !ok {
			return fmt.Sprintf("%s\tvalue %d", v, r), nil
		}
	}
	return fmt.Sprintf("%s\t%s\t%s", v, errno.Name(e), e.Error()), nil
}

// parsePointer accepts an address in decimal or hex, or a negative number as
// printed through intptr_t.
func parsePointer(v string) (uintptr, error) {
	if strings.HasPrefix(v, "-") {
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing %q: %w", v, err)
		}
		return uintptr(n), nil
	}
	u, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", v, err)
	}
	if uint64(uintptr(u)) != u {
		return 0, fmt.Errorf("parsing %q: address out of range", v)
	}
	return uintptr(u), nil
}
