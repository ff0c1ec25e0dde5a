package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"github.com/walteh/posixcall/pkg/errno"
	"github.com/walteh/posixcall/pkg/errnocell"
	"github.com/walteh/posixcall/pkg/posixcall"
	"github.com/walteh/posixcall/posixcall/config"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// marker is stored in the ambient cell before each scenario. No scenario
// can legitimately produce it.
const marker = unix.EDOM

// Probe implements subcommands.Command for the "probe" command.
type Probe struct{}

// Name implements subcommands.Command.Name.
func (*Probe) Name() string {
	return "probe"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Probe) Synopsis() string {
	return "exercise the facade on this host"
}

// Usage implements subcommands.Command.Usage.
func (*Probe) Usage() string {
	return `probe [flags] - run the facade's error scenarios against the selected
platform and report one line per scenario. Exits non-zero if any fails.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Probe) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Probe) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := confFrom(args)
	results, err := runProbe(ctx, conf)
	if err != nil {
		return failure(err)
	}
	if err := printResults(os.Stdout, results); err != nil {
		return failure(err)
	}
	for _, r := range results {
		if r.err != nil {
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// scenario is one probe check. It returns the encoded value it observed.
type scenario struct {
	name string
	run  func(env *probeEnv) (string, error)
}

type probeEnv struct {
	s       posixcall.Syscalls
	diag    *bytes.Buffer
	scratch string
	missing string
}

type result struct {
	worker   int
	scenario string
	value    string
	err      error
}

// expect checks that r decodes to one of want.
func expect[T errno.Result](r T, want ...unix.Errno) (string, error) {
	e, ok := errno.Decode(r)
	got := fmt.Sprintf("%d", r)
	if !ok {
		return got, fmt.Errorf("got %s, want an error", got)
	}
	got += " " + errno.Name(e)
	for _, w := range want {
		if e == w {
			return got, nil
		}
	}
	return got, fmt.Errorf("decoded %s, want %v", errno.Name(e), want)
}

var nativeScenarios = []scenario{
	{"open-missing", func(env *probeEnv) (string, error) {
		v, err := expect(env.s.Open(env.missing, unix.O_RDONLY, 0), unix.ENOENT)
		if err != nil {
			return v, err
		}
		path := filepath.Join(env.scratch, "present")
		fd := env.s.Open(path, unix.O_CREAT|unix.O_RDWR, 0o600)
		if errno.IsError(fd) {
			return fmt.Sprintf("%d", fd), fmt.Errorf("open %s: %v", path, decodedName(fd))
		}
		env.s.Close(fd)
		env.s.Unlink(path)
		return fmt.Sprintf("%s, then fd %d", v, fd), nil
	}},
	{"write-rdonly", func(env *probeEnv) (string, error) {
		fd := env.s.Open(os.DevNull, unix.O_RDONLY, 0)
		if errno.IsError(fd) {
			return fmt.Sprintf("%d", fd), fmt.Errorf("open %s: %v", os.DevNull, decodedName(fd))
		}
		defer env.s.Close(fd)
		return expect(env.s.Write(fd, []byte("x")), unix.EBADF, unix.EINVAL)
	}},
	{"mmap-zero", func(env *probeEnv) (string, error) {
		return expect(env.s.Mmap(0, 0, unix.PROT_READ, unix.MAP_PRIVATE|unix.MAP_ANON, -1, 0), unix.EINVAL)
	}},
	{"dup-close", func(env *probeEnv) (string, error) {
		var fds [2]int32
		if r := env.s.Pipe(&fds); errno.IsError(r) {
			return fmt.Sprintf("%d", r), fmt.Errorf("pipe: %v", decodedName(r))
		}
		defer env.s.Close(fds[0])
		dup := env.s.Dup(fds[1])
		if errno.IsError(dup) {
			env.s.Close(fds[1])
			return fmt.Sprintf("%d", dup), fmt.Errorf("dup: %v", decodedName(dup))
		}
		defer env.s.Close(dup)
		env.s.Close(fds[1])
		if n := env.s.Write(dup, []byte("ok")); n != 2 {
			return fmt.Sprintf("%d", n), fmt.Errorf("write through duplicate: %v", decodedName(n))
		}
		buf := make([]byte, 2)
		n := env.s.Read(fds[0], buf)
		if n != 2 || string(buf) != "ok" {
			return fmt.Sprintf("%d", n), fmt.Errorf("read %q", buf)
		}
		return fmt.Sprintf("%d", n), nil
	}},
	{"close-bad", func(env *probeEnv) (string, error) {
		return expect(env.s.Close(-1), unix.EBADF)
	}},
}

var unsupportedScenarios = []scenario{
	{"stub-enosys", func(env *probeEnv) (string, error) {
		env.diag.Reset()
		v, err := expect(env.s.Close(-1), unix.ENOSYS)
		if err != nil {
			return v, err
		}
		if lines := strings.Count(env.diag.String(), "\n"); lines != 1 {
			return v, fmt.Errorf("got %d diagnostic lines, want 1", lines)
		}
		return v, nil
	}},
}

func decodedName[T errno.Result](r T) string {
	e, _ := errno.Decode(r)
	return errno.Name(e)
}

// runProbe runs the scenarios for conf's platform on conf.Concurrency
// threads at once. Each worker checks that its ambient cell still holds
// the marker after every scenario.
func runProbe(ctx context.Context, conf *config.Config) ([]result, error) {
	name := platformName(conf)
	scenarios := nativeScenarios
	if name == posixcall.UnsupportedPlatform {
		scenarios = unsupportedScenarios
	}
	logrus.WithFields(logrus.Fields{
		"platform":    name,
		"cell":        errnocell.Default(),
		"concurrency": conf.Concurrency,
	}).Debug("probing")

	results := make([]result, conf.Concurrency*len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < conf.Concurrency; w++ {
		g.Go(func() error {
			env := &probeEnv{diag: new(bytes.Buffer), missing: conf.MissingPath}
			s, err := capabilitySet(conf, posixcall.Options{Diagnostics: env.diag})
			if err != nil {
				return err
			}
			env.s = s
			env.scratch, err = os.MkdirTemp(conf.ScratchDir, "posixcall-probe-")
			if err != nil {
				return fmt.Errorf("creating scratch directory: %w", err)
			}
			defer os.RemoveAll(env.scratch)

			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			cell := errnocell.Default()
			saved := cell.Load()
			defer cell.Store(saved)

			for i, sc := range scenarios {
				if err := ctx.Err(); err != nil {
					return err
				}
				cell.Store(marker)
				r := result{worker: w, scenario: sc.name}
				r.value, r.err = sc.run(env)
				if got := cell.Load(); got != marker && r.err == nil {
					r.err = fmt.Errorf("ambient cell changed to %s", errno.Name(got))
				}
				logrus.WithFields(logrus.Fields{"worker": w, "scenario": sc.name}).Debugf("value %s, err %v", r.value, r.err)
				results[w*len(scenarios)+i] = r
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printResults(out io.Writer, results []result) error {
	w := tabwriter.NewWriter(out, 12, 1, 3, ' ', 0)
	for _, r := range results {
		status, detail := "ok", ""
		if r.err != nil {
			status, detail = "FAIL", r.err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", status, r.worker, r.scenario, r.value, detail)
	}
	return w.Flush()
}
