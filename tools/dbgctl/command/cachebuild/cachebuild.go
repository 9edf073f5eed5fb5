// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cachebuild

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/dbgboot/pkg/act/cli"
	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/google/dbgboot/pkg/dbgeng/libcache"
	"github.com/google/dbgboot/pkg/dbgeng/locate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the cache-build command.
type Config struct {
	ConfigPath string
	// Source is the toolkit directory to cache. Empty means the detected store install.
	Source string
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	return nil
}

// StoreFinder finds a store-installed toolkit.
type StoreFinder interface {
	FindStoreInstall(context.Context) (string, error)
}

// Deps holds dependencies for the command.
type Deps struct {
	IO     cli.IO
	Cache  interface{ Ensure(context.Context, string) (string, error) }
	Finder StoreFinder
}

func (d *Deps) SetIO(cio cli.IO) { d.IO = cio }

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{}, nil
}

// Result describes the ensured cache.
type Result struct {
	Source string
	Dir    string
}

// Handler creates or refreshes the library cache.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*Result, error) {
	if deps.Cache == nil || (deps.Finder == nil && cfg.Source == "") {
		conf, err := config.Resolve(cfg.ConfigPath)
		if err != nil {
			return nil, errors.Wrap(err, "loading config")
		}
		if deps.Cache == nil {
			mgr, err := libcache.New(conf)
			if err != nil {
				return nil, err
			}
			deps.Cache = mgr
		}
		if deps.Finder == nil {
			deps.Finder = locate.New(conf)
		}
	}
	source := cfg.Source
	if source == "" {
		found, err := deps.Finder.FindStoreInstall(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "finding store install")
		}
		if found == "" {
			return nil, errors.New("no store install found; pass --source")
		}
		source = found
	}
	dir, err := deps.Cache.Ensure(ctx, source)
	if err != nil {
		return nil, err
	}
	return &Result{Source: source, Dir: dir}, nil
}

// Render prints the cache location and its source.
func Render(cio cli.IO, r *Result) error {
	_, err := fmt.Fprintf(cio.Out, "%s <- %s\n", r.Dir, r.Source)
	return err
}

// Command creates a new cache-build command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "cache-build [--config <file>] [--source <dir>]",
		Short: "Create or refresh the library cache",
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
	set.StringVar(&cfg.Source, "source", "", "toolkit directory to copy from (default: detected store install)")
	return set
}
