// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cacheclear

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/dbgboot/pkg/act/cli"
	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/google/dbgboot/pkg/dbgeng/libcache"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the cache-clear command.
type Config struct {
	ConfigPath string
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	return nil
}

// Clearer removes a library cache.
type Clearer interface {
	Dir() string
	Clear(context.Context) error
}

// Deps holds dependencies for the command.
type Deps struct {
	IO    cli.IO
	Cache Clearer
}

func (d *Deps) SetIO(cio cli.IO) { d.IO = cio }

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{}, nil
}

// Result names the removed cache directory.
type Result struct {
	Dir string
}

// Handler removes the library cache. It is the recovery path for a cache
// reported as corrupt.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*Result, error) {
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
	if err := c.Clear(ctx); err != nil {
		return nil, err
	}
	return &Result{Dir: c.Dir()}, nil
}

// Render prints the removed directory.
func Render(cio cli.IO, r *Result) error {
	_, err := fmt.Fprintf(cio.Out, "removed %s\n", r.Dir)
	return err
}

// Command creates a new cache-clear command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "cache-clear [--config <file>]",
		Short: "Remove the library cache",
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
