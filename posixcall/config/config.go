// Package config holds the configuration of the posixcall binary: an optional
// TOML file overlaid by command line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Log formats accepted by LogFormat.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the posixcall configuration.
type Config struct {
	// Platform names the capability set to use. Empty selects the build's
	// default.
	Platform string `toml:"platform"`

	// ScratchDir is where probe creates its temporary files.
	ScratchDir string `toml:"scratch_dir"`

	// MissingPath must not exist. Probe opens it to provoke ENOENT.
	MissingPath string `toml:"missing_path"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Concurrency is the number of OS threads probe runs the scenarios on at
	// once.
	Concurrency int `toml:"concurrency"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ScratchDir:  os.TempDir(),
		MissingPath: filepath.Join(os.TempDir(), "posixcall-probe-missing", "missing"),
		LogLevel:    logrus.InfoLevel.String(),
		LogFormat:   LogFormatText,
		Concurrency: 1,
	}
}

// Load returns the defaults overlaid by the TOML file at path.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("loading config %q: unknown key %q", path, undecoded[0].String())
	}
	return c, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("log_format: want %q or %q, got %q", LogFormatText, LogFormatJSON, c.LogFormat)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency: must be at least 1, got %d", c.Concurrency)
	}
	if c.ScratchDir == "" {
		return fmt.Errorf("scratch_dir: must be set")
	}
	if c.MissingPath == "" {
		return fmt.Errorf("missing_path: must be set")
	}
	return nil
}

// RegisterFlags registers a flag for every field on fs. The flags default
// to empty; only flags set on the command line override a Config.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String("platform", "", "capability set to use, empty for this build's default.")
	fs.String("scratch-dir", "", "directory for probe's temporary files.")
	fs.String("missing-path", "", "path that must not exist, used to provoke ENOENT.")
	fs.String("log-level", "", "logging level: debug, info, warning, error.")
	fs.String("log-format", "", "log format: text (default) or json.")
	fs.Int("concurrency", 0, "number of threads to run probe scenarios on.")
	fs.Bool("debug", false, "shorthand for -log-level=debug.")
}

// ApplyFlags copies the flags set on fs into c.
func (c *Config) ApplyFlags(fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		v := f.Value.String()
		switch f.Name {
		case "platform":
			c.Platform = v
		case "scratch-dir":
			c.ScratchDir = v
		case "missing-path":
			c.MissingPath = v
		case "log-level":
			c.LogLevel = v
		case "log-format":
			c.LogFormat = v
		case "concurrency":
			c.Concurrency, err = strconv.Atoi(v)
		case "debug":
			var debug bool
			if debug, err = strconv.ParseBool(v); err == nil && debug {
				c.LogLevel = logrus.DebugLevel.String()
			}
		}
	})
	if err != nil {
		return fmt.Errorf("applying flags: %w", err)
	}
	return nil
}

// SetupLogging configures the standard logrus logger.
func (c *Config) SetupLogging() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	if c.LogFormat == LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
