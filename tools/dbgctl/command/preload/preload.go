// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"bytes"
	"context"
	"flag"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/dbgboot/pkg/act/cli"
	"github.com/google/dbgboot/pkg/dbgeng/bootstrap"
	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the preload command.
type Config struct {
	ConfigPath       string
	AlwaysCacheStore bool
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	return nil
}

// Initializer runs the bootstrap sequence.
type Initializer interface {
	Init(context.Context) (*bootstrap.Context, error)
}

// Deps holds dependencies for the command.
type Deps struct {
	IO cli.IO
	// Bootstrapper overrides the host bootstrapper when set.
	Bootstrapper Initializer
}

func (d *Deps) SetIO(cio cli.IO) { d.IO = cio }

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{}, nil
}

// Handler locates the toolkit and loads its libraries into this process.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*bootstrap.Context, error) {
	b := deps.Bootstrapper
	if b == nil {
		c, err := config.Resolve(cfg.ConfigPath)
		if err != nil {
			return nil, errors.Wrap(err, "loading config")
		}
		if cfg.AlwaysCacheStore {
			c.AlwaysCacheStore = true
		}
		hb, err := bootstrap.New(c)
		if err != nil {
			return nil, err
		}
		b = hb
	}
	return b.Init(ctx)
}

// Render prints the bootstrap outcome.
func Render(cio cli.IO, c *bootstrap.Context) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	var b bytes.Buffer
	fmt.Fprintf(&b, "toolkit:  %s (via %s)\n", c.Resolution.Dir, c.Resolution.Source)
	fmt.Fprintf(&b, "loaded:   %s\n", green(c.Dir))
	fmt.Fprintf(&b, "cached:   %t\n", c.Cached)
	if c.ModelAvailable() {
		fmt.Fprintln(&b, "dbgmodel: available")
	} else {
		fmt.Fprintln(&b, "dbgmodel:", yellow("unavailable"), c.Libraries.ModelErr)
	}
	_, err := b.WriteTo(cio.Out)
	return err
}

// Command creates a new preload command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "preload [--config <file>] [--always-cache-store]",
		Short: "Locate the debugger toolkit and load its libraries",
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
	set.BoolVar(&cfg.AlwaysCacheStore, "always-cache-store", false, "load store installs from the library cache without trying them in place")
	return set
}
