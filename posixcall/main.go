// Binary posixcall inspects and exercises the errno-safe syscall facade.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"github.com/walteh/posixcall/posixcall/cmd"
	"github.com/walteh/posixcall/posixcall/config"
)

var configFile = flag.String("config", "", "path to a TOML configuration file.")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(cmd.Probe), "")
	subcommands.Register(new(cmd.Errno), "")
	subcommands.Register(new(cmd.Ops), "")

	config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	conf := config.Default()
	if *configFile != "" {
		var err error
		if conf, err = config.Load(*configFile); err != nil {
			cmd.Fatalf("%v", err)
		}
	}
	if err := conf.ApplyFlags(flag.CommandLine); err != nil {
		cmd.Fatalf("%v", err)
	}
	if err := conf.Validate(); err != nil {
		cmd.Fatalf("invalid configuration: %v", err)
	}
	if err := conf.SetupLogging(); err != nil {
		cmd.Fatalf("%v", err)
	}
	logrus.WithField("args", os.Args).Debug("starting")

	os.Exit(int(subcommands.Execute(context.Background(), conf)))
}
