// Package cmd holds implementations of the posixcall commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"github.com/walteh/posixcall/pkg/posixcall"
	"github.com/walteh/posixcall/posixcall/config"
)

// Fatalf writes to stderr and exits with a failure status code. It is for
// errors that happen before logging is configured.
func Fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "posixcall: "+format+"\n", args...)
	os.Exit(128)
}

// confFrom returns the configuration passed to subcommands.Execute.
func confFrom(args []any) *config.Config {
	if len(args) > 0 {
		if conf, ok := args[0].(*config.Config); ok {
			return conf
		}
	}
	return config.Default()
}

// platformName resolves the configured platform to a registered name.
func platformName(conf *config.Config) string {
	if conf.Platform == "" {
		return posixcall.Default()
	}
	return conf.Platform
}

// capabilitySet builds the capability set conf selects.
func capabilitySet(conf *config.Config, opts posixcall.Options) (posixcall.Syscalls, error) {
	c, err := posixcall.Lookup(platformName(conf))
	if err != nil {
		return nil, err
	}
	return c.New(opts), nil
}

// failure logs err and returns the failure exit status.
func failure(err error) subcommands.ExitStatus {
	logrus.Error(err)
	return subcommands.ExitFailure
}
