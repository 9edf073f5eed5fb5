// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package bootstrap makes the debugging engine's libraries resident before any
// binding code runs.
//
// Callers construct a Bootstrapper once at process start, call Init, and pass
// the returned Context to components that need the engine:
//
//	b, err := bootstrap.New(config.Default())
//	...
//	dctx, err := b.Init(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !dctx.ModelAvailable() {
//		// data model features are disabled
//	}
package bootstrap

import (
	"context"
	"io/fs"
	"log"
	"sync"

	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/google/dbgboot/pkg/dbgeng/libcache"
	"github.com/google/dbgboot/pkg/dbgeng/locate"
	"github.com/google/dbgboot/pkg/dbgeng/preload"
	"github.com/pkg/errors"
)

// Locator finds a toolkit install.
type Locator interface {
	Locate(context.Context) (*locate.Resolution, error)
}

// Cache produces a loadable copy of a source directory.
type Cache interface {
	Ensure(ctx context.Context, source string) (string, error)
}

// Preloader makes a directory's libraries resident.
type Preloader interface {
	Preload(ctx context.Context, dir string) (*preload.Result, error)
}

// Context is the outcome of a successful bootstrap.
type Context struct {
	// Resolution is where the toolkit was found.
	Resolution locate.Resolution
	// Dir is the directory the libraries were loaded from. It differs from
	// Resolution.Dir only when Cached is set.
	Dir       string
	Cached    bool
	Libraries *preload.Result
}

// ModelAvailable reports whether the optional data model library is resident.
func (c *Context) ModelAvailable() bool {
	return c.Libraries != nil && c.Libraries.ModelAvailable
}

// Bootstrapper runs the locate, cache, and preload sequence once per process.
type Bootstrapper struct {
	Locator   Locator
	Cache     Cache
	Preloader Preloader
	Logger    *log.Logger
	// AlwaysCacheStore loads store installs from the cache without first trying them in place.
	AlwaysCacheStore bool

	once   sync.Once
	result *Context
	err    error
}

// New returns a Bootstrapper for the host.
func New(cfg config.Config) (*Bootstrapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	mgr, err := libcache.New(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "configuring library cache")
	}
	return &Bootstrapper{
		Locator:          locate.New(cfg),
		Cache:            mgr,
		Preloader:        preload.New(),
		Logger:           log.Default(),
		AlwaysCacheStore: cfg.AlwaysCacheStore,
	}, nil
}

func (b *Bootstrapper) logf(format string, args ...any) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}

// Init runs the bootstrap on first call. Every call returns the first call's outcome.
func (b *Bootstrapper) Init(ctx context.Context) (*Context, error) {
	b.once.Do(func() {
		b.result, b.err = b.run(ctx)
	})
	return b.result, b.err
}

func (b *Bootstrapper) run(ctx context.Context) (*Context, error) {
	res, err := b.Locator.Locate(ctx)
	if err != nil {
		return nil, err
	}
	if res.Source == locate.SourceStore && b.AlwaysCacheStore {
		return b.fromCache(ctx, res)
	}
	libs, err := b.Preloader.Preload(ctx, res.Dir)
	if err == nil {
		return &Context{Resolution: *res, Dir: res.Dir, Libraries: libs}, nil
	}
	if res.Source != locate.SourceStore || !errors.Is(err, fs.ErrPermission) {
		return nil, err
	}
	b.logf("Store install %s is not loadable in place (%v), using library cache", res.Dir, err)
	return b.fromCache(ctx, res)
}

func (b *Bootstrapper) fromCache(ctx context.Context, res *locate.Resolution) (*Context, error) {
	dir, err := b.Cache.Ensure(ctx, res.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "caching store install")
	}
	libs, err := b.Preloader.Preload(ctx, dir)
	if err != nil {
		return nil, err
	}
	return &Context{Resolution: *res, Dir: dir, Cached: true, Libraries: libs}, nil
}
