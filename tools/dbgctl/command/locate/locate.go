// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package locate

import (
	"context"
	"flag"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/dbgboot/pkg/act/cli"
	"github.com/google/dbgboot/pkg/dbgeng/bootstrap"
	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/google/dbgboot/pkg/dbgeng/locate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the locate command.
type Config struct {
	ConfigPath string
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	return nil
}

// Deps holds dependencies for the command.
type Deps struct {
	IO cli.IO
	// Locator overrides the host locator when set.
	Locator bootstrap.Locator
}

func (d *Deps) SetIO(cio cli.IO) { d.IO = cio }

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{}, nil
}

// Handler finds the toolkit without loading anything.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*locate.Resolution, error) {
	loc := deps.Locator
	if loc == nil {
		c, err := config.Resolve(cfg.ConfigPath)
		if err != nil {
			return nil, errors.Wrap(err, "loading config")
		}
		loc = locate.New(c)
	}
	return loc.Locate(ctx)
}

// Render prints the resolution.
func Render(cio cli.IO, r *locate.Resolution) error {
	green := color.New(color.FgGreen).SprintFunc()
	_, err := fmt.Fprintf(cio.Out, "%s (via %s)\n", green(r.Dir), r.Source)
	return err
}

// Command creates a new locate command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "locate [--config <file>]",
		Short: "Print the debugger toolkit directory that would be used",
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
