package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/walteh/posixcall/pkg/posixcall"
)

// Ops implements subcommands.Command for the "ops" command.
type Ops struct {
	quiet bool
}

// Name implements subcommands.Command.Name.
func (*Ops) Name() string {
	return "ops"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Ops) Synopsis() string {
	return "list the wrapped operations"
}

// Usage implements subcommands.Command.Usage.
func (*Ops) Usage() string {
	return `ops [flags] - list the wrapped operations, their result domains and
what the selected platform issues for each.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (o *Ops) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&o.quiet, "quiet", false, "only list operation names.")
}

// Execute implements subcommands.Command.Execute.
func (o *Ops) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := confFrom(args)
	// The stub would log once per probe; nothing is called here.
	s, err := capabilitySet(conf, posixcall.Options{Diagnostics: io.Discard})
	if err != nil {
		return failure(err)
	}
	if err := printOps(os.Stdout, posixcall.Operations(s), o.quiet); err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}

func printOps(out io.Writer, ops []posixcall.Descriptor, quiet bool) error {
	if quiet {
		for _, op := range ops {
			fmt.Fprintln(out, op.Name)
		}
		return nil
	}
	w := tabwriter.NewWriter(out, 12, 1, 3, ' ', 0)
	fmt.Fprint(w, "NAME\tRESULT\tFAILS WITH\tISSUES\tARGS\n")
	for _, op := range ops {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t(%s)\n", op.Name, op.Domain, op.Domain.Sentinel(), op.Call, op.Args)
	}
	return w.Flush()
}
