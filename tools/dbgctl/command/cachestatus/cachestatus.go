// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cachestatus

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/dbgboot/pkg/act/cli"
	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/google/dbgboot/pkg/dbgeng/libcache"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the cache-status command.
type Config struct {
	ConfigPath string
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	return nil
}

// Inspector reports on a library cache.
type Inspector interface {
	Status(context.Context) (*libcache.Status, error)
}

// Deps holds dependencies for the command.
type Deps struct {
	IO    cli.IO
	Cache Inspector
}

func (d *Deps) SetIO(cio cli.IO) { d.IO = cio }

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{}, nil
}

// Handler reports the state of the library cache.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*libcache.Status, error) {
	c := deps.Cache
	if c == nil {
		conf, err := config.Resolve(cfg.ConfigPath)
		if err != nil {
			return nil, errors.Wrap(err, "loading config")
		}
		mgr, err := libcache.New(conf)
		if err != nil {
			return nil, err
		}
		c = mgr
	}
	return c.Status(ctx)
}

// Render prints the cache status.
func Render(cio cli.IO, s *libcache.Status) error {
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	var b bytes.Buffer
	if !s.Exists {
		fmt.Fprintf(&b, "%s: %s\n", s.Dir, yellow("not present"))
		_, err := b.WriteTo(cio.Out)
		return err
	}
	fmt.Fprintf(&b, "%s\n", s.Dir)
	if s.SourceErr != nil {
		fmt.Fprintf(&b, "  source:  %s %v\n", red("corrupt"), s.SourceErr)
	} else {
		fmt.Fprintf(&b, "  source:  %s\n", s.Source)
	}
	fmt.Fprintf(&b, "  present: %s\n", strings.Join(s.Present, ", "))
	if len(s.Missing) > 0 {
		fmt.Fprintf(&b, "  missing: %s\n", red(strings.Join(s.Missing, ", ")))
	}
	_, err := b.WriteTo(cio.Out)
	return err
}

// Command creates a new cache-status command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "cache-status [--config <file>]",
		Short: "Show the state of the library cache",
		Args:  cobra.NoArgs,
		RunE: cli.RunE(
			&cfg,
			cli.SkipArgs[Config],
			InitDeps,
			Handler,
			Render,
		),
	}
	cmd.Flags().AddGoFlagSet(flagSet(cmd.Name(), &cfg))
	return cmd
}

// flagSet returns the command-line flags for the Config struct.
func flagSet(name string, cfg *Config) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.ConfigPath, "config", "", "path to a YAML or TOML config file (default $"+config.FileEnv+")")
	return set
}
